package ilp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInfeasible     = errors.New("ilp: problem is infeasible")
	ErrUnbounded      = errors.New("ilp: problem is unbounded")
	ErrIterationLimit = errors.New("ilp: simplex iteration limit reached")
)

const (
	// pivotTol is the smallest magnitude accepted as a pivot element.
	pivotTol = 1e-9

	// phaseOneTol is the largest sum of artificial variables treated as feasible.
	phaseOneTol = 1e-7
)

// tableau is a dense simplex tableau over a standard form problem
//
//	minimize c^T x  s.t.  A x = b, x >= 0
//
// extended with one artificial column per row. Column layout:
// [0, n) original, [n, n+m) artificial, n+m right hand side.
type tableau struct {
	m, n int
	t    *mat.Dense
	obj  []float64 // reduced costs, obj[n+m] holds -z
	// basis[i] is the column basic in row i
	basis []int
	// rows multiplied by -1 to make b nonnegative
	flipped []bool

	tol float64

	// set after a degenerate pivot, cleared after an improving one
	bland bool
}

func newTableau(c []float64, A mat.Matrix, b []float64, tol float64) *tableau {
	m, n := A.Dims()
	if len(c) != n || len(b) != m {
		panic("ilp: size mismatch")
	}

	t := mat.NewDense(m, n+m+1, nil)
	flipped := make([]bool, m)
	basis := make([]int, m)
	for i := 0; i < m; i++ {
		row := t.RawRowView(i)
		for j := 0; j < n; j++ {
			row[j] = A.At(i, j)
		}
		row[n+i] = 1
		row[n+m] = b[i]
		if b[i] < 0 {
			flipped[i] = true
			floats.Scale(-1, row[:n])
			row[n+m] = -b[i]
		}
		basis[i] = n + i
	}

	return &tableau{
		m:       m,
		n:       n,
		t:       t,
		obj:     make([]float64, n+m+1),
		basis:   basis,
		flipped: flipped,
		tol:     tol,
	}
}

// price recomputes the objective row for the given column costs.
func (tb *tableau) price(cost []float64) {
	copy(tb.obj, cost)
	tb.obj[tb.n+tb.m] = 0
	for i, j := range tb.basis {
		if cb := cost[j]; cb != 0 {
			floats.AddScaled(tb.obj, -cb, tb.t.RawRowView(i))
		}
	}
}

func (tb *tableau) pivot(r, e int) {
	row := tb.t.RawRowView(r)
	floats.Scale(1/row[e], row)
	row[e] = 1
	for i := 0; i < tb.m; i++ {
		if i == r {
			continue
		}
		other := tb.t.RawRowView(i)
		if f := other[e]; f != 0 {
			floats.AddScaled(other, -f, row)
			other[e] = 0
		}
	}
	if f := tb.obj[e]; f != 0 {
		floats.AddScaled(tb.obj, -f, row)
		tb.obj[e] = 0
	}
	// rounding must not leave a basic variable below zero
	rhs := tb.n + tb.m
	for i := 0; i < tb.m; i++ {
		if v := tb.t.At(i, rhs); v < 0 && v > -pivotTol {
			tb.t.Set(i, rhs, 0)
		}
	}
	tb.basis[r] = e
}

// entering picks the column to enter the basis among [0, limit). Dantzig's rule is used
// until a degenerate pivot happens, Bland's rule from then on until the objective moves.
func (tb *tableau) entering(limit int) int {
	best := -1
	bestVal := -tb.tol
	for j := 0; j < limit; j++ {
		if tb.obj[j] < bestVal {
			if tb.bland {
				return j
			}
			best = j
			bestVal = tb.obj[j]
		}
	}
	return best
}

// leaving runs the ratio test for column e. Right hand sides that drifted below
// zero count as zero. Ties go to the smallest basic index.
func (tb *tableau) leaving(e int) int {
	rhs := tb.n + tb.m
	best := -1
	bestRatio := math.Inf(1)
	for i := 0; i < tb.m; i++ {
		a := tb.t.At(i, e)
		if a <= pivotTol {
			continue
		}
		ratio := math.Max(0, tb.t.At(i, rhs)) / a
		switch {
		case ratio < bestRatio-pivotTol:
			best, bestRatio = i, ratio
		case ratio <= bestRatio+pivotTol && tb.basis[i] < tb.basis[best]:
			best = i
			bestRatio = math.Min(ratio, bestRatio)
		}
	}
	return best
}

// iterate pivots until optimality over the first limit columns. A pivot that
// does not move the objective switches to Bland's rule, which then stays on until
// a pivot improves it again, and for good in the second half of the pivot budget.
func (tb *tableau) iterate(limit, maxPivots int) error {
	rhs := tb.n + tb.m
	for k := 0; k < maxPivots; k++ {
		e := tb.entering(limit)
		if e < 0 {
			return nil
		}
		r := tb.leaving(e)
		if r < 0 {
			return ErrUnbounded
		}

		step := math.Max(0, tb.t.At(r, rhs)) / tb.t.At(r, e)
		gain := -step * tb.obj[e]
		tb.bland = gain <= tb.tol*(1+math.Abs(tb.obj[rhs])) || k >= maxPivots/2
		tb.pivot(r, e)
	}
	return ErrIterationLimit
}

// simplexResult holds the primal point, its objective value and one dual per row of A.
type simplexResult struct {
	z float64
	x []float64
	y []float64
}

// solveStandard solves the standard form problem with the two-phase tableau method.
// The returned duals y satisfy c - A^T y >= 0 and b^T y = z at optimality.
func solveStandard(c []float64, A mat.Matrix, b []float64, tol float64) (simplexResult, error) {
	if tol <= 0 {
		tol = 1e-9
	}
	tb := newTableau(c, A, b, tol)
	m, n := tb.m, tb.n
	rhs := n + m
	maxPivots := 50 * (m + n + 10)

	// phase I: minimize the sum of the artificial variables
	phaseOne := make([]float64, n+m)
	for i := n; i < n+m; i++ {
		phaseOne[i] = 1
	}
	tb.price(append(phaseOne, 0))
	if err := tb.iterate(n, maxPivots); err != nil {
		if err == ErrUnbounded {
			// phase I is bounded below by 0, so this is a numerical breakdown.
			err = ErrIterationLimit
		}
		return simplexResult{}, err
	}
	if -tb.obj[rhs] > phaseOneTol*(1+floats.Norm(b, 1)) {
		return simplexResult{}, ErrInfeasible
	}

	// drive artificial variables out of the basis where possible. Rows where this fails
	// are redundant and keep their artificial at level zero.
	for i := 0; i < m; i++ {
		if tb.basis[i] < n {
			continue
		}
		row := tb.t.RawRowView(i)
		for j := 0; j < n; j++ {
			if math.Abs(row[j]) > pivotTol {
				tb.pivot(i, j)
				break
			}
		}
	}

	// phase II
	cost := make([]float64, n+m+1)
	copy(cost, c)
	tb.price(cost)
	tb.bland = false
	if err := tb.iterate(n, maxPivots); err != nil {
		return simplexResult{}, err
	}

	x := make([]float64, n)
	for i, j := range tb.basis {
		if j < n {
			v := tb.t.At(i, rhs)
			if v < 0 {
				v = 0
			}
			x[j] = v
		}
	}

	// the artificial column of row i holds B^-1 e_i, so its reduced cost is -y_i.
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		y[i] = -tb.obj[n+i]
		if tb.flipped[i] {
			y[i] = -y[i]
		}
	}

	return simplexResult{z: floats.Dot(c, x), x: x, y: y}, nil
}
