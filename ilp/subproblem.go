package ilp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// subProblem is one node of the branch-and-bound tree: the standard form root
// problem plus the bounds added on the way down.
type subProblem struct {
	id     int64
	parent int64

	// shared with the root and every other node, read only
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	integralityConstraints []bool
	branchHeuristic        BranchHeuristic
	tol                    float64

	// relaxation value of the parent, so a lower bound on this node
	bound float64

	// one row per branching step, gsharp·x <= hsharp
	bnbConstraints []bnbConstraint
}

type bnbConstraint struct {
	branchedVariable int
	hsharp           float64
	gsharp           []float64
}

type solution struct {
	problem *subProblem
	x       []float64
	z       float64
	err     error
}

// combineInequalities stacks the root inequalities on top of the branching rows.
// The returned h never shares memory with the root's.
func (p subProblem) combineInequalities() (*mat.Dense, []float64) {
	nb := len(p.bnbConstraints)
	if nb == 0 {
		if p.G == nil {
			return nil, nil
		}
		return mat.DenseCopyOf(p.G), p.h
	}

	nRoot := 0
	if p.G != nil && !p.G.IsEmpty() {
		nRoot, _ = p.G.Dims()
	}

	G := mat.NewDense(nRoot+nb, len(p.c), nil)
	h := make([]float64, nRoot+nb)
	if nRoot > 0 {
		G.Slice(0, nRoot, 0, len(p.c)).(*mat.Dense).Copy(p.G)
		copy(h, p.h)
	}
	for i, bc := range p.bnbConstraints {
		G.SetRow(nRoot+i, bc.gsharp)
		h[nRoot+i] = bc.hsharp
	}
	return G, h
}

// convertToEqualities adds one slack variable per row of G and returns the
// equality system [A 0; G I] x = [b; h]. A may be nil, G may not.
func convertToEqualities(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) (cNew []float64, aNew *mat.Dense, bNew []float64) {
	if G == nil {
		panic("convertToEqualities: nil G")
	}
	if err := sanityCheckDimensions(c, A, b, G, h); err != nil {
		panic(err)
	}

	nVar, nEq, nIneq := len(c), len(b), len(h)

	cNew = make([]float64, nVar+nIneq)
	copy(cNew, c)

	bNew = append(append(make([]float64, 0, nEq+nIneq), b...), h...)

	aNew = mat.NewDense(nEq+nIneq, nVar+nIneq, nil)
	if A != nil {
		aNew.Slice(0, nEq, 0, nVar).(*mat.Dense).Copy(A)
	}
	aNew.Slice(nEq, nEq+nIneq, 0, nVar).(*mat.Dense).Copy(G)
	for i := 0; i < nIneq; i++ {
		aNew.Set(nEq+i, nVar+i, 1)
	}
	return cNew, aNew, bNew
}

// solve the LP relaxation of the node. Slack columns added for the branching
// rows are dropped from the returned x.
func (p *subProblem) solve() solution {
	c, A, b := p.c, p.A, p.b
	if G, h := p.combineInequalities(); G != nil {
		c, A, b = convertToEqualities(p.c, p.A, p.b, G, h)
	}

	res, err := solveStandard(c, A, b, p.tol)
	if err == nil && len(res.x) > len(p.c) {
		res.x = res.x[:len(p.c)]
	}
	return solution{problem: p, x: res.x, z: res.z, err: err}
}

// branch splits the node on the variable picked by the heuristic into
// x_i <= floor(v) and x_i >= floor(v)+1. It panics when no variable is fractional.
func (s solution) branch() (p1, p2 *subProblem) {
	var on int
	switch s.problem.branchHeuristic {
	case BRANCH_MAXFUN:
		on = maxFunBranchPoint(s.problem.c, s.x, s.problem.integralityConstraints)
	case BRANCH_MOST_INFEASIBLE:
		on = mostInfeasibleBranchPoint(s.x, s.problem.integralityConstraints)
	case BRANCH_NAIVE:
		on = s.naiveBranchPoint()
	default:
		panic(fmt.Sprintf("unknown branching heuristic %v", s.problem.branchHeuristic))
	}
	if on < 0 {
		panic("branching requested on a solution without fractional integer variables")
	}

	floor := math.Floor(s.x[on])
	p1 = s.problem.getChild(on, 1, floor)
	// x_i >= floor+1 written as -x_i <= -(floor+1)
	p2 = s.problem.getChild(on, -1, -(floor + 1))

	p1.bound = s.z
	p2.bound = s.z
	return p1, p2
}

// getChild returns a copy of p with factor*x_on <= rhs added.
func (p *subProblem) getChild(on int, factor, rhs float64) *subProblem {
	row := make([]float64, len(p.c))
	row[on] = factor

	child := p.copy()
	child.bnbConstraints = append(child.bnbConstraints, bnbConstraint{
		branchedVariable: on,
		hsharp:           rhs,
		gsharp:           row,
	})
	return child
}

// copy shares the root matrices and clones the branching rows. The child's
// parent is p; the tree assigns its own id when it is enqueued.
func (p *subProblem) copy() *subProblem {
	rows := make([]bnbConstraint, len(p.bnbConstraints), len(p.bnbConstraints)+1)
	copy(rows, p.bnbConstraints)

	return &subProblem{
		id:                     p.id,
		parent:                 p.id,
		c:                      p.c,
		A:                      p.A,
		b:                      p.b,
		G:                      p.G,
		h:                      p.h,
		integralityConstraints: p.integralityConstraints,
		branchHeuristic:        p.branchHeuristic,
		tol:                    p.tol,
		bound:                  p.bound,
		bnbConstraints:         rows,
	}
}

func sanityCheckDimensions(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) error {
	if A == nil && G == nil {
		return errors.New("no constraint matrix")
	}
	if (A == nil) != (b == nil) {
		return errors.New("A and b must be given together")
	}
	if (G == nil) != (h == nil) {
		return errors.New("G and h must be given together")
	}
	if A != nil {
		if r, cols := A.Dims(); r != len(b) || cols != len(c) {
			return fmt.Errorf("A is %dx%d, want %dx%d", r, cols, len(b), len(c))
		}
	}
	if G != nil {
		if r, cols := G.Dims(); r != len(h) || cols != len(c) {
			return fmt.Errorf("G is %dx%d, want %dx%d", r, cols, len(h), len(c))
		}
	}
	return nil
}
