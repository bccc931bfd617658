package zebra

import (
	"sort"

	"github.com/juju/errors"
)

// finalize solves the master with binary columns over the final pool and turns
// the selected columns into a Solution.
func finalize(s Solver, inst *Instance, pool *Pool) (*Solution, float64, int, error) {
	m, err := buildMaster(inst, pool, true)
	if err != nil {
		return nil, 0, 0, err
	}

	sol, err := s.SolveMIP(m.prob)
	if err != nil {
		return nil, 0, 0, errors.Annotate(err, "solving integer master")
	}
	if len(sol.X) != pool.Len() {
		return nil, 0, 0, errors.Annotatef(ErrSolver, "solver returned %d values for %d columns", len(sol.X), pool.Len())
	}

	var facilities []int
	seen := make(map[int]bool)
	for i, v := range sol.X {
		if v < 0.5 {
			continue
		}
		f := pool.Column(i).Facility
		if seen[f] {
			return nil, 0, 0, errors.Annotatef(ErrSolver, "facility %d selected with two radii", f)
		}
		seen[f] = true
		facilities = append(facilities, f)
	}
	if len(facilities) != inst.p {
		return nil, 0, 0, errors.Annotatef(ErrSolver, "%d facilities selected, want %d", len(facilities), inst.p)
	}
	sort.Ints(facilities)

	assignment, cost := inst.assign(facilities)
	return &Solution{
		Facilities: facilities,
		Assignment: assignment,
		Objective:  cost,
	}, sol.Z, sol.Nodes, nil
}
