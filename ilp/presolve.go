package ilp

import (
	"gonum.org/v1/gonum/mat"
)

// TODO: singleton rows and fixed variables could be removed as well, see Andersen 1995.

// preProcessedProblem is a MILPproblem in standard form, Ax = b with x >= 0.
type preProcessedProblem struct {
	c                      []float64
	A                      *mat.Dense
	b                      []float64
	integralityConstraints []bool

	// rows of the stacked system [A; G] that survived presolve, in order
	keptRows []int
}

// toInitialSubproblem returns the root node of the search, with id 0 and no
// branching rows.
func (p preProcessedProblem) toInitialSubproblem(s *Solver) *subProblem {
	return &subProblem{
		c:                      p.c,
		A:                      p.A,
		b:                      p.b,
		integralityConstraints: p.integralityConstraints,
		branchHeuristic:        s.Heuristic,
		tol:                    s.Tolerance,
		bnbConstraints:         []bnbConstraint{},
	}
}

// preProcessor records how to map a solution of the presolved problem back to
// the original one. Undoers run in reverse order of registration.
type preProcessor struct {
	undoers []undoer
}

type undoer func(solution) solution

func newPreprocessor() *preProcessor {
	return &preProcessor{}
}

func (prepper *preProcessor) addUndoer(u undoer) {
	prepper.undoers = append(prepper.undoers, u)
}

// removeEmptyRows drops the all-zero rows of A. A zero row with a nonzero right
// hand side makes the problem infeasible. The returned matrix and vector are
// copies; kept lists the surviving row indices.
func removeEmptyRows(A *mat.Dense, b []float64) (*mat.Dense, []float64, []int, error) {
	rows, cols := A.Dims()

	kept := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		if mat.Norm(A.RowView(i), 1) != 0 {
			kept = append(kept, i)
			continue
		}
		if b[i] != 0 {
			return nil, nil, nil, ErrInfeasible
		}
	}

	// gonum has no empty matrices: an all-zero system stays as it is and its
	// artificial variables simply remain at zero
	if len(kept) == 0 {
		for i := 0; i < rows; i++ {
			kept = append(kept, i)
		}
	}

	aNew := mat.NewDense(len(kept), cols, nil)
	bNew := make([]float64, len(kept))
	for i, r := range kept {
		aNew.SetRow(i, A.RawRowView(r))
		bNew[i] = b[r]
	}
	return aNew, bNew, kept, nil
}

// toStandardForm turns the inequalities of p into equalities with one slack
// variable each. Slacks are continuous and are cut from the solution on postsolve.
func (prepper *preProcessor) toStandardForm(p MILPproblem) ([]float64, *mat.Dense, []float64, []bool) {
	if p.G == nil {
		return p.c, p.A, p.b, p.integralityConstraints
	}

	c, A, b := convertToEqualities(p.c, p.A, p.b, p.G, p.h)

	integrality := make([]bool, len(c))
	copy(integrality, p.integralityConstraints)

	nVar := len(p.c)
	prepper.addUndoer(func(s solution) solution {
		if s.err == nil && len(s.x) > nVar {
			s.x = s.x[:nVar]
		}
		return s
	})

	return c, A, b, integrality
}

func (prepper *preProcessor) preSolve(p MILPproblem) (preProcessedProblem, error) {
	c, A, b, integrality := prepper.toStandardForm(p)

	// no undo needed: dropped rows carry no variables
	A, b, kept, err := removeEmptyRows(A, b)
	if err != nil {
		return preProcessedProblem{}, err
	}

	return preProcessedProblem{
		c:                      c,
		A:                      A,
		b:                      b,
		integralityConstraints: integrality,
		keptRows:               kept,
	}, nil
}

func (prepper *preProcessor) postSolve(s solution) solution {
	for i := len(prepper.undoers) - 1; i >= 0; i-- {
		s = prepper.undoers[i](s)
	}
	return s
}
