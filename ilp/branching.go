package ilp

import (
	"fmt"
	"math"
)

// selectable heuristic options
type BranchHeuristic int

const (
	BRANCH_MAXFUN          BranchHeuristic = 0
	BRANCH_MOST_INFEASIBLE BranchHeuristic = 1
	BRANCH_NAIVE           BranchHeuristic = 2
)

func (h BranchHeuristic) String() string {
	switch h {
	case BRANCH_MAXFUN:
		return "max_fun"
	case BRANCH_MOST_INFEASIBLE:
		return "most_infeasible"
	case BRANCH_NAIVE:
		return "naive"
	default:
		return "unknown"
	}
}

// ParseBranchHeuristic is the inverse of String.
func ParseBranchHeuristic(s string) (BranchHeuristic, error) {
	for _, h := range []BranchHeuristic{BRANCH_MAXFUN, BRANCH_MOST_INFEASIBLE, BRANCH_NAIVE} {
		if h.String() == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown branching heuristic %q", s)
}

// integralityTol is how far from an integer a value may be and still count as integral.
const integralityTol = 1e-6

func fractional(v float64) bool {
	return math.Abs(v-math.Round(v)) > integralityTol
}

// Get the variable to branch on by looking at which variables we branched on previously.
// If there are no branches yet, we start at the first fractional integer variable.
// Note that this is a really naive way to find a nice variable to branch on.
func (s solution) naiveBranchPoint() int {
	n := len(s.x)
	start := 0

	// if there are branches, we cycle through the variables starting after the last one we branched on
	if k := len(s.problem.bnbConstraints); k > 0 {
		start = s.problem.bnbConstraints[k-1].branchedVariable + 1
	}

	for i := 0; i < n; i++ {
		cursor := (start + i) % n
		if s.problem.integralityConstraints[cursor] && fractional(s.x[cursor]) {
			return cursor
		}
	}

	return -1
}

// Choose the fractional integrality-constrained variable with the highest absolute value in the objective function
func maxFunBranchPoint(c, x []float64, integralityConstraints []bool) int {
	if len(c) != len(integralityConstraints) {
		panic("number of variables not equal to number of integrality constraints")
	}

	candidateValue := -1.0
	currentCandidate := -1

	for i, v := range c {
		if integralityConstraints[i] && fractional(x[i]) {
			if math.Abs(v) > candidateValue {
				currentCandidate = i
				candidateValue = math.Abs(v)
			}
		}
	}

	return currentCandidate
}

// Choose the variable with the fractional part closest to 1/2.
func mostInfeasibleBranchPoint(x []float64, integralityConstraints []bool) int {
	if len(x) != len(integralityConstraints) {
		panic("number of variables not equal to number of integrality constraints")
	}

	candidateDistance := math.Inf(1)
	currentCandidate := -1

	for i, v := range x {
		if integralityConstraints[i] && fractional(v) {
			_, f := math.Modf(v)
			if d := math.Abs(0.5 - f); d < candidateDistance {
				currentCandidate = i
				candidateDistance = d
			}
		}
	}

	return currentCandidate
}
