package zebra

import "time"

// Solution selects exactly p facilities and assigns every customer to the
// nearest of them.
type Solution struct {
	// selected facility node indices, increasing
	Facilities []int

	// Assignment[u] is the facility serving customer u
	Assignment []int

	// weighted distance of the assignment
	Objective float64
}

// Diagnostics describe how a solve went. They are filled in as far as the
// solve got, also when it failed.
type Diagnostics struct {
	// pricing rounds whose columns were inserted and re-solved
	Iterations int

	// objective of the last restricted master LP
	LPBound float64

	// objective of the integer program over the final pool. It charges a
	// customer once for every selected column covering it, so it is at
	// least Solution.Objective.
	IntegerObjective float64

	// Converged, BudgetExhausted or Failed
	Termination State

	PoolSize int

	// LP objective after every master solve, non-increasing
	BoundHistory []float64

	// branch-and-bound nodes solved by the finalizer
	Nodes int

	Elapsed time.Duration
}
