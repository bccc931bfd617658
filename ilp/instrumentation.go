package ilp

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// BnbMiddleware receives each subproblem solution and the decision taken on it.
// It is called from a single goroutine.
type BnbMiddleware interface {
	ProcessDecision(Node, BnbDecision)
}

type dummyMiddleware struct{}

func (d dummyMiddleware) ProcessDecision(Node, BnbDecision) {}

// Branch-and-bound decisions that can be made by the algorithm
type BnbDecision string

const (
	SUBPROBLEM_NOT_FEASIBLE         BnbDecision = "subproblem has no feasible solution"
	SUBPROBLEM_FAILED               BnbDecision = "solver failed on subproblem"
	WORSE_THAN_INCUMBENT            BnbDecision = "worse than incumbent"
	BETTER_THAN_INCUMBENT_BRANCHING BnbDecision = "better than incumbent but not integer feasible, so branching"
	BETTER_THAN_INCUMBENT_FEASIBLE  BnbDecision = "better than incumbent and integer feasible, so replacing incumbent"
	NODE_LIMIT_REACHED              BnbDecision = "node limit reached, not branching"
)

// Node summarises a solved subproblem. It deliberately holds no reference to the
// subproblem itself so the matrices can be collected.
type Node struct {
	ID     int64
	Parent int64
	Z      float64
	Depth  int
}

func newNode(s solution) Node {
	return Node{
		ID:     s.problem.id,
		Parent: s.problem.parent,
		Z:      s.z,
		Depth:  len(s.problem.bnbConstraints),
	}
}

// DecisionLogger logs every decision at debug level and counts them per kind.
type DecisionLogger struct {
	log logrus.FieldLogger

	mu     sync.Mutex
	counts map[BnbDecision]int
}

func NewDecisionLogger(log logrus.FieldLogger) *DecisionLogger {
	return &DecisionLogger{log: log, counts: make(map[BnbDecision]int)}
}

func (d *DecisionLogger) ProcessDecision(n Node, decision BnbDecision) {
	d.mu.Lock()
	d.counts[decision]++
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{
		"node":   n.ID,
		"parent": n.Parent,
		"depth":  n.Depth,
		"z":      n.Z,
	}).Debug(string(decision))
}

// Counts returns a copy of the number of decisions taken per kind.
func (d *DecisionLogger) Counts() map[BnbDecision]int {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[BnbDecision]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}
