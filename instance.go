package zebra

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Node is a customer location. Every node is a customer; candidate facility
// sites are a subset of the nodes.
type Node struct {
	ID     int
	Demand float64
	X, Y   float64
}

// Instance is an immutable p-median problem: nodes with demand weights, a
// distance matrix indexed [facility][customer], the candidate sites and p.
type Instance struct {
	nodes      []Node
	demand     []float64
	dist       *mat.Dense
	candidates []int
	p          int

	// slot of each node in candidates, -1 when the node is not a candidate
	slot []int

	// order[k] lists all customers by increasing distance from candidates[k],
	// ties by node index
	order [][]int
}

type instanceOptions struct {
	candidates []int
	demand     []float64
	nodes      []Node
}

type InstanceOption func(*instanceOptions)

// WithCandidates restricts the facility sites to the given node indices.
// By default every node is a candidate.
func WithCandidates(nodes ...int) InstanceOption {
	return func(o *instanceOptions) {
		o.candidates = append([]int(nil), nodes...)
	}
}

// WithDemands sets one weight per node. The default weight is 1.
func WithDemands(w []float64) InstanceOption {
	return func(o *instanceOptions) {
		o.demand = append([]float64(nil), w...)
	}
}

// WithNodes attaches node descriptions (coordinates) to the instance.
func WithNodes(nodes []Node) InstanceOption {
	return func(o *instanceOptions) {
		o.nodes = append([]Node(nil), nodes...)
	}
}

// NewInstance validates the inputs and builds an Instance. dist must be square
// with a zero diagonal and finite nonnegative entries; dist.At(f, u) is the
// distance from facility f to customer u. The matrix is copied.
func NewInstance(dist mat.Matrix, p int, opts ...InstanceOption) (*Instance, error) {
	var o instanceOptions
	for _, opt := range opts {
		opt(&o)
	}

	if dist == nil {
		return nil, invalidf("no distance matrix")
	}
	n, cols := dist.Dims()
	if n == 0 {
		return nil, invalidf("empty node set")
	}
	if n != cols {
		return nil, invalidf("distance matrix is %dx%d, want square", n, cols)
	}

	d := mat.DenseCopyOf(dist)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := d.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, invalidf("distance (%d, %d) = %v", i, j, v)
			}
		}
		if d.At(i, i) != 0 {
			return nil, invalidf("distance (%d, %d) = %v, want 0", i, i, d.At(i, i))
		}
	}

	candidates := o.candidates
	if candidates == nil {
		candidates = make([]int, n)
		for i := range candidates {
			candidates[i] = i
		}
	}
	if len(candidates) == 0 {
		return nil, invalidf("no candidate facilities")
	}
	sort.Ints(candidates)
	slot := make([]int, n)
	for i := range slot {
		slot[i] = -1
	}
	for k, c := range candidates {
		if c < 0 || c >= n {
			return nil, invalidf("candidate %d out of range [0, %d)", c, n)
		}
		if slot[c] >= 0 {
			return nil, invalidf("candidate %d listed twice", c)
		}
		slot[c] = k
	}

	if p < 1 || p > len(candidates) {
		return nil, invalidf("p = %d, want 1 <= p <= %d", p, len(candidates))
	}

	demand := o.demand
	if demand == nil {
		demand = make([]float64, n)
		for i := range demand {
			demand[i] = 1
		}
	}
	if len(demand) != n {
		return nil, invalidf("%d demands for %d nodes", len(demand), n)
	}
	for i, w := range demand {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, invalidf("demand of node %d = %v", i, w)
		}
	}

	if o.nodes != nil && len(o.nodes) != n {
		return nil, invalidf("%d node descriptions for %d nodes", len(o.nodes), n)
	}

	inst := &Instance{
		nodes:      o.nodes,
		demand:     demand,
		dist:       d,
		candidates: candidates,
		p:          p,
		slot:       slot,
		order:      make([][]int, len(candidates)),
	}
	for k, f := range candidates {
		row := d.RawRowView(f)
		order := make([]int, n)
		for u := range order {
			order[u] = u
		}
		sort.SliceStable(order, func(a, b int) bool {
			return row[order[a]] < row[order[b]]
		})
		inst.order[k] = order
	}

	return inst, nil
}

// NumNodes returns the number of nodes, which is also the number of customers.
func (inst *Instance) NumNodes() int { return len(inst.demand) }

func (inst *Instance) P() int { return inst.p }

// Candidates returns the candidate facility node indices in increasing order.
func (inst *Instance) Candidates() []int {
	return append([]int(nil), inst.candidates...)
}

// IsCandidate reports whether node f is a candidate facility site.
func (inst *Instance) IsCandidate(f int) bool {
	return f >= 0 && f < len(inst.slot) && inst.slot[f] >= 0
}

// Distance from facility f to customer u.
func (inst *Instance) Distance(f, u int) float64 {
	return inst.dist.At(f, u)
}

func (inst *Instance) Demand(u int) float64 {
	return inst.demand[u]
}

// Nodes returns the node descriptions, or nil when the instance was built from a
// bare distance matrix.
func (inst *Instance) Nodes() []Node {
	return append([]Node(nil), inst.nodes...)
}

// maxDistance is the distance from candidate slot k to its farthest customer.
func (inst *Instance) maxDistance(k int) float64 {
	order := inst.order[k]
	return inst.dist.At(inst.candidates[k], order[len(order)-1])
}

// level returns the largest distance from candidate slot k to a customer that
// does not exceed r, and false when no customer is within r.
func (inst *Instance) level(k int, r float64) (float64, bool) {
	f := inst.candidates[k]
	order := inst.order[k]
	i := sort.Search(len(order), func(i int) bool {
		return inst.dist.At(f, order[i]) > r
	})
	if i == 0 {
		return 0, false
	}
	return inst.dist.At(f, order[i-1]), true
}

// nearest returns the facility of fs closest to customer u, ties to the lower node index.
func (inst *Instance) nearest(u int, fs []int) int {
	best := -1
	bestD := math.Inf(1)
	for _, f := range fs {
		d := inst.dist.At(f, u)
		if d < bestD || (d == bestD && f < best) {
			best, bestD = f, d
		}
	}
	return best
}

// assign maps every customer to its nearest facility in fs and returns the
// assignment and its weighted cost.
func (inst *Instance) assign(fs []int) ([]int, float64) {
	assignment := make([]int, inst.NumNodes())
	cost := 0.0
	for u := range assignment {
		f := inst.nearest(u, fs)
		assignment[u] = f
		cost += inst.demand[u] * inst.dist.At(f, u)
	}
	return assignment, cost
}
