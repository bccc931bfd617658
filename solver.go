package zebra

import (
	"io"

	"github.com/juju/errors"

	"github.com/paulafernalia/p-median-zebra/ilp"
)

//go:generate mockgen -source=solver.go -destination=mock_solver_test.go -package=zebra

// Solver is the LP/MIP solving capability consumed by the engine. Dual values
// in an LPSolution are indexed by the constraint index returned when the row
// was added to the problem.
type Solver interface {
	SolveLP(p *ilp.Problem) (*ilp.LPSolution, error)
	SolveMIP(p *ilp.Problem) (*ilp.Solution, error)
}

// SolverFactory acquires a Solver for one solve. When the returned value also
// implements io.Closer it is closed once the solve reaches a terminal state.
type SolverFactory func(cfg Config) (Solver, error)

// NewILPSolver is the default SolverFactory, backed by the ilp package.
func NewILPSolver(cfg Config) (Solver, error) {
	h, err := ilp.ParseBranchHeuristic(cfg.BranchHeuristic)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ilp.NewSolver(
		ilp.WithWorkers(cfg.BranchWorkers),
		ilp.WithBranchHeuristic(h),
		ilp.WithNodeLimit(cfg.NodeLimit),
		ilp.WithMiddleware(ilp.NewDecisionLogger(cfg.logger())),
	), nil
}

// acquireSolver returns the solver for one solve and its release function.
func acquireSolver(cfg Config) (Solver, func(), error) {
	factory := cfg.Solver
	if factory == nil {
		factory = NewILPSolver
	}
	s, err := factory(cfg)
	if err != nil {
		return nil, nil, errors.Annotate(err, "acquiring solver")
	}
	release := func() {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				cfg.logger().WithError(err).Warn("closing solver")
			}
		}
	}
	return s, release, nil
}
