package ilp

import (
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

type MILPproblem struct {
	// minimize c^T x subject to A x = b, G x <= h, x >= 0
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	// which variables to apply the integrality constraint to. Same order as c.
	integralityConstraints []bool

	// position of every user constraint in A or G, in the order they were added
	rows []rowRef
}

// LPSolution is the optimum of the continuous relaxation.
type LPSolution struct {
	// objective function value
	Z float64

	// one value per variable, in Problem.Variables order
	X []float64

	// one dual value per constraint, in the order the constraints were added.
	// Duals of >= rows are nonnegative, duals of <= rows nonpositive, and the
	// reduced cost of variable j is c_j - sum_i Duals[i] * a_ij.
	Duals []float64
}

// Solution is the optimum of the mixed integer problem.
type Solution struct {
	Z float64
	X []float64

	// number of branch-and-bound nodes whose relaxation was solved
	Nodes int
}

// Solver solves relaxations with the tableau simplex and integer problems with a
// concurrent branch-and-bound search. The zero value is usable.
type Solver struct {
	// number of goroutines solving subproblems, defaults to GOMAXPROCS
	Workers int

	Heuristic BranchHeuristic

	// stop branching after this many nodes, 0 means no limit
	NodeLimit int

	// reduced cost tolerance of the simplex, defaults to 1e-9
	Tolerance float64

	Middleware BnbMiddleware
}

type Option func(*Solver)

func WithWorkers(n int) Option {
	return func(s *Solver) {
		s.Workers = n
	}
}

func WithBranchHeuristic(h BranchHeuristic) Option {
	return func(s *Solver) {
		s.Heuristic = h
	}
}

func WithNodeLimit(n int) Option {
	return func(s *Solver) {
		s.NodeLimit = n
	}
}

func WithMiddleware(m BnbMiddleware) Option {
	return func(s *Solver) {
		s.Middleware = m
	}
}

func NewSolver(opts ...Option) *Solver {
	s := &Solver{Heuristic: BRANCH_MOST_INFEASIBLE}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Solver) middleware() BnbMiddleware {
	if s.Middleware == nil {
		return dummyMiddleware{}
	}
	return s.Middleware
}

// SolveLP solves the continuous relaxation of p, ignoring integrality, and reports the
// dual value of every constraint.
func (s *Solver) SolveLP(p *Problem) (*LPSolution, error) {
	milp := p.ToSolveable()
	if err := milp.trivial(); err != nil {
		return nil, err
	}
	if milp.empty() {
		return &LPSolution{X: make([]float64, len(milp.c)), Duals: make([]float64, len(milp.rows))}, nil
	}

	prepper := newPreprocessor()
	pre, err := prepper.preSolve(*milp)
	if err != nil {
		return nil, err
	}

	res, err := solveStandard(pre.c, pre.A, pre.b, s.Tolerance)
	if err != nil {
		return nil, err
	}
	sol := prepper.postSolve(solution{x: res.x, z: res.z})

	// scatter the duals of the kept rows back to the rows of [A; G]
	nEq := len(milp.b)
	full := make([]float64, nEq+len(milp.h))
	for k, r := range pre.keptRows {
		full[r] = res.y[k]
	}

	duals := make([]float64, len(milp.rows))
	for i, ref := range milp.rows {
		r := ref.row
		if !ref.equality {
			r += nEq
		}
		duals[i] = ref.sign * full[r]
	}

	return &LPSolution{Z: sol.z, X: sol.x, Duals: duals}, nil
}

// SolveMIP solves p honouring the integrality of its variables.
func (s *Solver) SolveMIP(p *Problem) (*Solution, error) {
	milp := p.ToSolveable()
	if err := milp.trivial(); err != nil {
		return nil, err
	}
	if milp.empty() {
		return &Solution{X: make([]float64, len(milp.c))}, nil
	}
	return milp.Solve(s)
}

func (p MILPproblem) empty() bool {
	return p.A == nil && p.G == nil
}

// trivial rejects problems that have no rows but a negative cost, which are unbounded.
func (p MILPproblem) trivial() error {
	if !p.empty() {
		return nil
	}
	for _, v := range p.c {
		if v < 0 {
			return ErrUnbounded
		}
	}
	return nil
}

func anyTrue(in []bool) bool {
	for _, x := range in {
		if x {
			return true
		}
	}
	return false
}

func (p MILPproblem) Solve(s *Solver) (*Solution, error) {
	if len(p.integralityConstraints) != len(p.c) {
		panic("integerVariables vector is not same length as vector c")
	}

	prepper := newPreprocessor()
	pre, err := prepper.preSolve(p)
	if err != nil {
		return nil, err
	}
	root := pre.toInitialSubproblem(s)

	if !anyTrue(p.integralityConstraints) {
		soln := prepper.postSolve(root.solve())
		if soln.err != nil {
			return nil, soln.err
		}
		return &Solution{Z: soln.z, X: soln.x, Nodes: 1}, nil
	}

	tree := newEnumerationTree(root, s.middleware(), s.NodeLimit)
	incumbent, err := tree.startSearch(s.workers())
	if err != nil {
		return nil, err
	}
	incumbent = prepper.postSolve(incumbent)

	return &Solution{
		Z:     incumbent.z,
		X:     roundIntegers(p.integralityConstraints, incumbent.x),
		Nodes: tree.solved(),
	}, nil
}

// roundIntegers snaps integer variables to the nearest integer.
func roundIntegers(integrality []bool, x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for i, isInt := range integrality {
		if isInt {
			out[i] = math.Round(out[i])
		}
	}
	return out
}
