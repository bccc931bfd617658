package ilp

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	priorityqueue "gopkg.in/dnaeon/go-priorityqueue.v1"
)

var ErrNodeLimit = errors.New("ilp: node limit reached before an integer solution was found")

// enumerationTree runs a best-first branch-and-bound search. Solved nodes flow
// from the workers to a single checker goroutine, which owns the incumbent and
// decides whether to prune or branch.
type enumerationTree struct {
	// checker -> pump, unbounded thanks to the pump's queue
	toSolve chan *subProblem
	// pump -> workers
	active chan *subProblem
	// workers -> checker
	candidates chan solution

	// nodes queued, being solved or waiting to be checked
	inProgress sync.WaitGroup

	rootProblem *subProblem
	middleware  BnbMiddleware
	nodeLimit   int

	lastID int64

	// owned by the checker; read by startSearch once the search is over
	incumbent *solution
	nSolved   int
	failure   error
	limited   bool
}

func newEnumerationTree(rootProblem *subProblem, middleware BnbMiddleware, nodeLimit int) *enumerationTree {
	return &enumerationTree{
		toSolve:     make(chan *subProblem),
		active:      make(chan *subProblem),
		candidates:  make(chan solution),
		rootProblem: rootProblem,
		middleware:  middleware,
		nodeLimit:   nodeLimit,
	}
}

// solved returns the number of LP relaxations solved, the root included.
func (p *enumerationTree) solved() int {
	return p.nSolved
}

func (p *enumerationTree) nextID() int64 {
	return atomic.AddInt64(&p.lastID, 1)
}

func (p *enumerationTree) startSearch(nworkers int) (solution, error) {
	root := p.rootProblem.solve()
	p.nSolved = 1
	if root.err != nil {
		return root, root.err
	}
	if feasibleForIP(p.rootProblem.integralityConstraints, root.x) {
		p.middleware.ProcessDecision(newNode(root), BETTER_THAN_INCUMBENT_FEASIBLE)
		return root, nil
	}

	go p.bufferPump()
	go p.solutionChecker()
	for j := 0; j < nworkers; j++ {
		go p.solveWorker()
	}

	p.postCandidate(root)
	p.inProgress.Wait()

	// the pump closes the worker and checker channels on its way out
	close(p.toSolve)

	switch {
	case p.failure != nil:
		return solution{}, p.failure
	case p.incumbent != nil:
		return *p.incumbent, nil
	case p.limited:
		return solution{}, ErrNodeLimit
	default:
		return solution{}, ErrInfeasible
	}
}

func (p *enumerationTree) postCandidate(s solution) {
	p.inProgress.Add(1)
	p.candidates <- s
}

func (p *enumerationTree) enqueueProblems(probs ...*subProblem) {
	for _, s := range probs {
		s.id = p.nextID()
		p.inProgress.Add(1)
		p.toSolve <- s
	}
}

// bufferPump decouples the checker from the workers. Queued nodes are handed
// out lowest bound first.
func (p *enumerationTree) bufferPump() {
	queue := priorityqueue.New[*subProblem, float64](priorityqueue.MinHeap)

	var next *subProblem
	// nil while there is nothing to hand out, which disables the send case
	var out chan *subProblem

	for {
		select {
		case prob, ok := <-p.toSolve:
			if !ok {
				close(p.active)
				close(p.candidates)
				return
			}
			queue.Put(prob, prob.bound)
		case out <- next:
			next = nil
		}

		if next == nil && queue.Len() > 0 {
			next = queue.Get().Value
		}
		out = nil
		if next != nil {
			out = p.active
		}
	}
}

func (p *enumerationTree) solveWorker() {
	for prob := range p.active {
		p.postCandidate(prob.solve())
		p.inProgress.Done()
	}
}

func (p *enumerationTree) solutionChecker() {
	for candidate := range p.candidates {
		p.check(candidate)
		p.inProgress.Done()
	}
}

func (p *enumerationTree) check(candidate solution) {
	if candidate.problem != p.rootProblem {
		p.nSolved++
	}

	var decision BnbDecision
	switch {
	case candidate.err != nil:
		decision = p.translateSolverFailure(candidate.err)

	// after a failure the remaining nodes are drained without branching
	case p.failure != nil:
		return

	// minimization: a relaxation no better than the incumbent prunes the node
	case p.incumbent != nil && candidate.z >= p.incumbent.z-integralityTol*(1+math.Abs(p.incumbent.z)):
		decision = WORSE_THAN_INCUMBENT

	case feasibleForIP(p.rootProblem.integralityConstraints, candidate.x):
		inc := candidate
		p.incumbent = &inc
		decision = BETTER_THAN_INCUMBENT_FEASIBLE

	case p.nodeLimit > 0 && p.nSolved >= p.nodeLimit:
		p.limited = true
		decision = NODE_LIMIT_REACHED

	default:
		decision = BETTER_THAN_INCUMBENT_BRANCHING
		p.enqueueProblems(candidate.branch())
	}

	p.middleware.ProcessDecision(newNode(candidate), decision)
}

// translateSolverFailure prunes infeasible nodes and records any other error
// as the failure of the whole search.
func (p *enumerationTree) translateSolverFailure(err error) BnbDecision {
	if errors.Is(err, ErrInfeasible) {
		return SUBPROBLEM_NOT_FEASIBLE
	}
	if p.failure == nil {
		p.failure = err
	}
	return SUBPROBLEM_FAILED
}

// feasibleForIP reports whether every integer constrained entry of x is integral.
func feasibleForIP(integrality []bool, x []float64) bool {
	if len(integrality) != len(x) {
		panic("integrality and solution vectors differ in length")
	}
	for i, v := range x {
		if integrality[i] && fractional(v) {
			return false
		}
	}
	return true
}
