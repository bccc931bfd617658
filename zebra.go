package zebra

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// Solve runs column generation on the radius formulation of inst and finishes
// with an integer program over the generated columns.
//
// Invalid instances or configurations fail fast with ErrInvalidInstance. Any
// failure after that is a *SolveError and no Solution is returned. Running out
// of iterations or time is not an error: the Solution is then built from the
// columns generated so far and Diagnostics.Termination is BudgetExhausted.
func Solve(ctx context.Context, inst *Instance, cfg Config) (*Solution, Diagnostics, error) {
	if err := validate(inst, cfg); err != nil {
		return nil, Diagnostics{Termination: Failed}, err
	}

	log := cfg.logger()
	cfg.Logger = log

	s, release, err := acquireSolver(cfg)
	if err != nil {
		return nil, Diagnostics{Termination: Failed}, &SolveError{Kind: ErrSolver, Stage: StageSeeding, Err: err}
	}
	defer release()

	c := newController(inst, cfg, s, log)
	state := c.run(ctx)

	diag := Diagnostics{
		Iterations:   c.iterations,
		LPBound:      c.last.objective,
		Termination:  state,
		PoolSize:     c.pool.Len(),
		BoundHistory: c.history,
	}
	if state == Failed {
		diag.Elapsed = time.Since(c.start)
		log.WithError(c.err).Error("column generation failed")
		return nil, diag, c.err
	}

	sol, z, nodes, err := finalize(s, inst, c.pool)
	diag.Elapsed = time.Since(c.start)
	if err != nil {
		diag.Termination = Failed
		serr := &SolveError{
			Kind:      kindOf(err),
			Stage:     StageFinalizer,
			Iteration: c.iterations,
			PoolSize:  c.pool.Len(),
			Err:       err,
		}
		log.WithError(serr).Error("integer finalizer failed")
		return nil, diag, serr
	}
	diag.IntegerObjective = z
	diag.Nodes = nodes

	log.WithFields(logrus.Fields{
		"termination": state,
		"iterations":  c.iterations,
		"columns":     c.pool.Len(),
		"lp_bound":    diag.LPBound,
		"objective":   sol.Objective,
		"elapsed":     diag.Elapsed,
	}).Info("solve finished")

	return sol, diag, nil
}

func validate(inst *Instance, cfg Config) error {
	if inst == nil {
		return invalidf("nil instance")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Annotate(ErrInvalidInstance, err.Error())
	}
	for _, s := range cfg.SeedColumns {
		if !inst.IsCandidate(s.Facility) {
			return invalidf("seed column facility %d is not a candidate", s.Facility)
		}
		if s.Radius < 0 {
			return invalidf("seed column (%d, %v) has a negative radius", s.Facility, s.Radius)
		}
	}
	return nil
}
