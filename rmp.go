package zebra

import (
	"math"

	"github.com/juju/errors"

	"github.com/paulafernalia/p-median-zebra/ilp"
)

// master is the radius formulation over the columns of a pool:
//
//	minimize   sum_c cost_c x_c
//	subject to sum_{c covers u} x_c >= 1   for every customer u
//	           sum_{c of f} x_c     <= 1   for every candidate f with columns
//	           sum_c x_c             = p
//	           x >= 0
//
// x_c <= 1 follows from the facility rows.
type master struct {
	prob *ilp.Problem

	// constraint index of each row, -1 for facilities without columns
	coverRows    []int
	facilityRows []int
	countRow     int
}

// duals of one master solve. Cover duals are nonnegative, facility duals
// nonpositive, the count dual is free.
type duals struct {
	cover    []float64
	facility []float64
	count    float64
}

type rmpResult struct {
	objective float64
	x         []float64
	duals     duals
}

func buildMaster(inst *Instance, pool *Pool, integer bool) (*master, error) {
	prob := ilp.NewProblem()
	vars := make([]*ilp.Variable, pool.Len())
	for i := range vars {
		vars[i] = prob.AddVariable(pool.Column(i).Cost, integer)
	}

	m := &master{
		prob:         &prob,
		coverRows:    make([]int, inst.NumNodes()),
		facilityRows: make([]int, len(inst.candidates)),
	}

	for u := range m.coverRows {
		cols := pool.Covering(u)
		if len(cols) == 0 {
			return nil, errors.Annotatef(ErrInfeasible, "customer %d is not covered by any column", u)
		}
		expr := make([]ilp.Expression, len(cols))
		for j, c := range cols {
			expr[j] = ilp.NewExpression(1, vars[c])
		}
		m.coverRows[u] = prob.AddGreaterEquality(expr, 1)
	}

	open := 0
	for k := range m.facilityRows {
		cols := pool.byFacility[k]
		if len(cols) == 0 {
			m.facilityRows[k] = -1
			continue
		}
		open++
		expr := make([]ilp.Expression, len(cols))
		for j, c := range cols {
			expr[j] = ilp.NewExpression(1, vars[c])
		}
		m.facilityRows[k] = prob.AddInEquality(expr, 1)
	}
	if open < inst.p {
		return nil, errors.Annotatef(ErrInfeasible, "%d facilities have columns, need %d", open, inst.p)
	}

	all := make([]ilp.Expression, len(vars))
	for i, v := range vars {
		all[i] = ilp.NewExpression(1, v)
	}
	m.countRow = prob.AddEquality(all, float64(inst.p))

	return m, nil
}

// solveMaster solves the LP relaxation over the pool and reads back the duals
// by row identity.
func solveMaster(s Solver, inst *Instance, pool *Pool) (rmpResult, error) {
	m, err := buildMaster(inst, pool, false)
	if err != nil {
		return rmpResult{}, err
	}

	sol, err := s.SolveLP(m.prob)
	if err != nil {
		return rmpResult{}, errors.Annotate(err, "solving restricted master")
	}
	if len(sol.X) != pool.Len() || len(sol.Duals) != len(m.prob.Constraints) {
		return rmpResult{}, errors.Annotatef(ErrSolver, "solver returned %d values and %d duals for %d columns and %d rows",
			len(sol.X), len(sol.Duals), pool.Len(), len(m.prob.Constraints))
	}

	d := duals{
		cover:    make([]float64, len(m.coverRows)),
		facility: make([]float64, len(m.facilityRows)),
		count:    sol.Duals[m.countRow],
	}
	for u, r := range m.coverRows {
		d.cover[u] = math.Max(0, sol.Duals[r])
	}
	for k, r := range m.facilityRows {
		if r >= 0 {
			d.facility[k] = math.Min(0, sol.Duals[r])
		}
	}

	return rmpResult{objective: sol.Z, x: sol.X, duals: d}, nil
}

// reducedCost of a column under the given duals.
func (d duals) reducedCost(c *Column) float64 {
	rc := c.Cost - d.facility[c.slot] - d.count
	c.covered.Visit(func(u int) (skip bool) {
		rc -= d.cover[u]
		return
	})
	return rc
}
