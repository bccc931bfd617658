package zebra

import "github.com/yourbasic/bit"

// Column is a (facility, radius) pair. It covers every customer within Radius
// of Facility and costs the weighted distance of those customers.
type Column struct {
	Facility int
	Radius   float64
	Cost     float64

	// position of Facility in the candidate list
	slot    int
	covered *bit.Set
}

func newColumn(inst *Instance, slot int, radius float64) *Column {
	f := inst.candidates[slot]
	c := &Column{
		Facility: f,
		Radius:   radius,
		slot:     slot,
		covered:  new(bit.Set),
	}
	for _, u := range inst.order[slot] {
		d := inst.dist.At(f, u)
		if d > radius {
			break
		}
		c.covered.Add(u)
		c.Cost += inst.demand[u] * d
	}
	return c
}

// Covers reports whether customer u is within the column's radius.
func (c *Column) Covers(u int) bool {
	return c.covered.Contains(u)
}

// Size is the number of covered customers.
func (c *Column) Size() int {
	return c.covered.Size()
}

// Customers lists the covered customers in increasing order.
func (c *Column) Customers() []int {
	out := make([]int, 0, c.covered.Size())
	c.covered.Visit(func(u int) (skip bool) {
		out = append(out, u)
		return
	})
	return out
}
