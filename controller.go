package zebra

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// State of the column generation controller.
type State int

const (
	Seeding State = iota
	Pricing
	Resolving
	Converged
	BudgetExhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Seeding:
		return "seeding"
	case Pricing:
		return "pricing"
	case Resolving:
		return "resolving"
	case Converged:
		return "converged"
	case BudgetExhausted:
		return "budget exhausted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the controller stops in this state.
func (s State) Terminal() bool {
	return s == Converged || s == BudgetExhausted || s == Failed
}

type controller struct {
	inst   *Instance
	cfg    Config
	solver Solver
	pool   *Pool
	log    logrus.FieldLogger

	state      State
	start      time.Time
	iterations int
	last       rmpResult
	history    []float64

	// columns from the last pricing round, inserted by the next resolve
	pending []priced

	err error
}

func newController(inst *Instance, cfg Config, s Solver, log logrus.FieldLogger) *controller {
	return &controller{
		inst:   inst,
		cfg:    cfg,
		solver: s,
		pool:   newPool(inst),
		log:    log,
		state:  Seeding,
	}
}

// run drives the state machine until it reaches a terminal state.
func (c *controller) run(ctx context.Context) State {
	c.start = time.Now()
	for !c.state.Terminal() {
		c.state = c.step(ctx)
	}
	return c.state
}

func (c *controller) step(ctx context.Context) State {
	switch c.state {
	case Seeding:
		if err := c.pool.seed(c.cfg.SeedColumns); err != nil {
			return c.fail(StageSeeding, err)
		}
		return Resolving

	case Resolving:
		added := 0
		for _, col := range c.pending {
			if _, ok := c.pool.add(newColumn(c.inst, col.slot, col.radius)); ok {
				added++
			}
		}
		if len(c.pending) > 0 && added == 0 {
			// nothing new to solve over
			c.pending = nil
			return Converged
		}

		res, err := solveMaster(c.solver, c.inst, c.pool)
		if err != nil {
			return c.fail(StageMaster, err)
		}
		if len(c.pending) > 0 {
			c.iterations++
		}
		c.pending = nil
		c.last = res
		c.history = append(c.history, res.objective)

		c.log.WithFields(logrus.Fields{
			"iteration": c.iterations,
			"columns":   c.pool.Len(),
			"added":     added,
			"bound":     res.objective,
		}).Info("restricted master solved")
		return Pricing

	case Pricing:
		if err := ctx.Err(); err != nil {
			return c.fail(StagePricing, err)
		}
		if time.Since(c.start) >= c.cfg.TimeLimit {
			return BudgetExhausted
		}

		found := pricer{inst: c.inst, pool: c.pool, cfg: c.cfg}.price(c.last.duals)
		if len(found) == 0 {
			return Converged
		}
		if c.iterations >= c.cfg.MaxIterations {
			return BudgetExhausted
		}
		c.pending = found
		return Resolving
	}

	return c.fail(StagePricing, errors.Errorf("no transition from state %v", c.state))
}

func (c *controller) fail(stage string, err error) State {
	c.err = &SolveError{
		Kind:      kindOf(err),
		Stage:     stage,
		Iteration: c.iterations,
		PoolSize:  c.pool.Len(),
		Err:       err,
	}
	return Failed
}
