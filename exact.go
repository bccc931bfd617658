package zebra

import (
	"context"
	"sort"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/paulafernalia/p-median-zebra/ilp"
)

// SolveExact solves the p-median problem to optimality with the full zebra
// formulation in a single integer program. For every customer i with distinct
// candidate distances D_i0 < D_i1 < ... it uses a binary y_j per candidate and a
// continuous z_ik per level k >= 1:
//
//	minimize   sum_i w_i (D_i0 + sum_k (D_ik - D_i,k-1) z_ik)
//	subject to z_ik + sum_{j: d(j,i) < D_ik} y_j >= 1
//	           sum_j y_j = p
//
// The program grows with n times the number of candidates, so it is meant for
// small instances and as a reference for Solve.
func SolveExact(ctx context.Context, inst *Instance, cfg Config) (*Solution, error) {
	if err := validate(inst, cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &SolveError{Kind: ErrSolver, Stage: StageExact, Err: err}
	}

	log := cfg.logger()
	cfg.Logger = log

	s, release, err := acquireSolver(cfg)
	if err != nil {
		return nil, &SolveError{Kind: ErrSolver, Stage: StageExact, Err: err}
	}
	defer release()

	prob := ilp.NewProblem()
	y := make([]*ilp.Variable, len(inst.candidates))
	for k := range y {
		y[k] = prob.AddBoundedVariable(0, 1, true)
	}

	offset := 0.0
	for i := 0; i < inst.NumNodes(); i++ {
		levels := inst.levelsOf(i)
		w := inst.demand[i]
		offset += w * levels[0]

		for k := 1; k < len(levels); k++ {
			z := prob.AddVariable(w*(levels[k]-levels[k-1]), false)
			expr := []ilp.Expression{ilp.NewExpression(1, z)}
			for j, f := range inst.candidates {
				if inst.dist.At(f, i) < levels[k] {
					expr = append(expr, ilp.NewExpression(1, y[j]))
				}
			}
			prob.AddGreaterEquality(expr, 1)
		}
	}

	count := make([]ilp.Expression, len(y))
	for k, v := range y {
		count[k] = ilp.NewExpression(1, v)
	}
	prob.AddEquality(count, float64(inst.p))

	log.WithFields(logrus.Fields{
		"variables":   len(prob.Variables),
		"constraints": len(prob.Constraints),
	}).Info("solving exact formulation")

	sol, err := s.SolveMIP(&prob)
	if err != nil {
		err = errors.Annotate(err, "solving exact formulation")
		return nil, &SolveError{Kind: kindOf(err), Stage: StageExact, Err: err}
	}

	var facilities []int
	for k, v := range y {
		if sol.X[v.Index()] > 0.5 {
			facilities = append(facilities, inst.candidates[k])
		}
	}
	if len(facilities) != inst.p {
		err := errors.Annotatef(ErrSolver, "%d facilities selected, want %d", len(facilities), inst.p)
		return nil, &SolveError{Kind: ErrSolver, Stage: StageExact, Err: err}
	}

	assignment, cost := inst.assign(facilities)
	log.WithFields(logrus.Fields{
		"objective": cost,
		"mip":       sol.Z + offset,
		"nodes":     sol.Nodes,
	}).Info("exact formulation solved")

	return &Solution{
		Facilities: facilities,
		Assignment: assignment,
		Objective:  cost,
	}, nil
}

// levelsOf returns the distinct distances from the candidates to customer u in
// increasing order.
func (inst *Instance) levelsOf(u int) []float64 {
	ds := make([]float64, len(inst.candidates))
	for k, f := range inst.candidates {
		ds[k] = inst.dist.At(f, u)
	}
	sort.Float64s(ds)

	levels := ds[:1]
	for _, d := range ds[1:] {
		if d != levels[len(levels)-1] {
			levels = append(levels, d)
		}
	}
	return levels
}
