package zebra

import "github.com/juju/errors"

type columnKey struct {
	facility int
	radius   float64
}

// SeedColumn asks for an extra (facility, radius) column in the initial pool.
// The radius is snapped down to the nearest customer distance.
type SeedColumn struct {
	Facility int     `yaml:"facility"`
	Radius   float64 `yaml:"radius"`
}

// Pool is the growing set of active columns. Columns live in a single arena
// and are referred to by their index in it; the reverse indices hold arena
// indices. A pool only grows.
type Pool struct {
	inst *Instance

	columns []*Column
	byKey   map[columnKey]int

	// columns covering each customer
	byCustomer [][]int

	// columns of each candidate slot
	byFacility [][]int
}

func newPool(inst *Instance) *Pool {
	return &Pool{
		inst:       inst,
		byKey:      make(map[columnKey]int),
		byCustomer: make([][]int, inst.NumNodes()),
		byFacility: make([][]int, len(inst.candidates)),
	}
}

// Len returns the number of columns in the pool.
func (p *Pool) Len() int { return len(p.columns) }

// Column returns the column at arena index i.
func (p *Pool) Column(i int) *Column { return p.columns[i] }

// Has reports whether the pool holds the column (facility, radius).
func (p *Pool) Has(facility int, radius float64) bool {
	_, ok := p.byKey[columnKey{facility, radius}]
	return ok
}

// Covering returns the arena indices of the columns covering customer u.
func (p *Pool) Covering(u int) []int { return p.byCustomer[u] }

// add inserts c unless a column with the same facility and radius exists. It
// returns the arena index of the column and whether it was inserted.
func (p *Pool) add(c *Column) (int, bool) {
	key := columnKey{c.Facility, c.Radius}
	if i, ok := p.byKey[key]; ok {
		return i, false
	}

	i := len(p.columns)
	p.columns = append(p.columns, c)
	p.byKey[key] = i
	p.byFacility[c.slot] = append(p.byFacility[c.slot], i)
	c.covered.Visit(func(u int) (skip bool) {
		p.byCustomer[u] = append(p.byCustomer[u], i)
		return
	})
	return i, true
}

// seed adds one maximal radius column per candidate, which alone admits an
// integer solution, followed by the extra seeds.
func (p *Pool) seed(extra []SeedColumn) error {
	for k := range p.inst.candidates {
		p.add(newColumn(p.inst, k, p.inst.maxDistance(k)))
	}

	for _, s := range extra {
		if !p.inst.IsCandidate(s.Facility) {
			return errors.Annotatef(ErrInvalidInstance, "seed column facility %d is not a candidate", s.Facility)
		}
		k := p.inst.slot[s.Facility]
		r, ok := p.inst.level(k, s.Radius)
		if !ok {
			return errors.Annotatef(ErrInvalidInstance, "seed column (%d, %v) covers no customer", s.Facility, s.Radius)
		}
		p.add(newColumn(p.inst, k, r))
	}
	return nil
}
