package zebra

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/paulafernalia/p-median-zebra/ilp"
)

var (
	// ErrInvalidInstance is returned before any solve when the instance or the
	// configuration is malformed.
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrInfeasible means the column pool cannot satisfy the master constraints.
	// With correct seeding this is unreachable.
	ErrInfeasible = errors.New("column pool infeasible")

	// ErrSolver is a numerical or internal failure of the LP/MIP solver.
	ErrSolver = errors.New("solver failure")
)

// Stages at which a solve can fail.
const (
	StageSeeding   = "seeding"
	StageMaster    = "master"
	StagePricing   = "pricing"
	StageFinalizer = "finalizer"
	StageExact     = "exact"
)

// SolveError is the error returned by Solve when the engine reaches the Failed state.
// Kind is one of ErrInfeasible or ErrSolver.
type SolveError struct {
	Kind      error
	Stage     string
	Iteration int
	PoolSize  int
	Err       error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s at %s (iteration %d, %d columns): %v", e.Kind, e.Stage, e.Iteration, e.PoolSize, e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

// Cause returns Kind, for errors.Cause.
func (e *SolveError) Cause() error {
	return e.Kind
}

// Is reports whether target is the kind of this error, so that
// errors.Is(err, ErrInfeasible) works without unwrapping by hand.
func (e *SolveError) Is(target error) bool {
	return target == e.Kind
}

// kindOf maps an error of the solving capability onto the engine's taxonomy.
func kindOf(err error) error {
	if errors.Is(err, ilp.ErrInfeasible) || errors.Is(err, ErrInfeasible) {
		return ErrInfeasible
	}
	return ErrSolver
}

func invalidf(format string, args ...interface{}) error {
	return errors.Annotatef(ErrInvalidInstance, format, args...)
}
