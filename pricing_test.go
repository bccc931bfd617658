package zebra

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineDuals price the three node line with
//
//	facility 0: r=0 rc -1 (1 customer), r=1 rc -1 (2), r=2 rc -0.5 (3)
//	facility 1: r=0 rc -1 (1), r=1 rc -1.5 (3)
//	facility 2: r=0 rc -1.3 (1), r=1 rc -1.3 (2), r=2 rc -0.3 (3)
func lineDuals() duals {
	return duals{
		cover:    []float64{1, 1, 1.5},
		facility: []float64{0, 0, -0.2},
	}
}

type pick struct {
	facility int
	radius   float64
}

func picks(inst *Instance, cols []priced) []pick {
	out := make([]pick, len(cols))
	for i, c := range cols {
		out[i] = pick{inst.candidates[c.slot], c.radius}
	}
	return out
}

func TestPricer_price(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		seed    []SeedColumn
		want    []pick
		wantRCs []float64
	}{
		{
			name:    "most negative",
			want:    []pick{{0, 1}, {1, 1}, {2, 1}},
			wantRCs: []float64{-1, -1.5, -1.3},
		},
		{
			name:    "largest coverage",
			mutate:  func(c *Config) { c.RadiusSelection = LargestCoverage },
			want:    []pick{{0, 2}, {1, 1}, {2, 2}},
			wantRCs: []float64{-0.5, -1.5, -0.3},
		},
		{
			name:    "several per facility",
			mutate:  func(c *Config) { c.ColumnsPerFacility = 3 },
			want:    []pick{{0, 1}, {0, 0}, {0, 2}, {1, 1}, {1, 0}, {2, 1}, {2, 0}, {2, 2}},
			wantRCs: []float64{-1, -1, -0.5, -1.5, -1, -1.3, -1.3, -0.3},
		},
		{
			name: "radii in the pool are skipped",
			seed: []SeedColumn{{Facility: 0, Radius: 1}, {Facility: 2, Radius: 1}},
			want: []pick{{0, 0}, {1, 1}, {2, 0}},
		},
		{
			name:   "round cap keeps the most negative",
			mutate: func(c *Config) { c.MaxColumnsPerRound = 2 },
			want:   []pick{{1, 1}, {2, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := line(t, 1)
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			pool := newPool(inst)
			for _, s := range tt.seed {
				r, ok := inst.level(inst.slot[s.Facility], s.Radius)
				require.True(t, ok)
				pool.add(newColumn(inst, inst.slot[s.Facility], r))
			}

			found := pricer{inst: inst, pool: pool, cfg: cfg}.price(lineDuals())
			assert.Equal(t, tt.want, picks(inst, found))
			if tt.wantRCs != nil {
				require.Len(t, found, len(tt.wantRCs))
				for i, c := range found {
					assert.InDelta(t, tt.wantRCs[i], c.rc, eps)
				}
			}
		})
	}
}

func TestPricer_price_sizes(t *testing.T) {
	inst := line(t, 1)
	cfg := DefaultConfig()
	cfg.ColumnsPerFacility = 3

	found := pricer{inst: inst, pool: newPool(inst), cfg: cfg}.priceFacility(1, lineDuals())
	require.Len(t, found, 2)
	assert.Equal(t, 3, found[0].size)
	assert.Equal(t, 1, found[1].size)
}

func TestPricer_price_nothingImproving(t *testing.T) {
	inst := line(t, 1)
	d := duals{
		cover:    make([]float64, 3),
		facility: make([]float64, 3),
	}

	found := pricer{inst: inst, pool: newPool(inst), cfg: DefaultConfig()}.price(d)
	assert.Empty(t, found)
}

// the reduced cost found by the incremental scan matches the one of the built column
func TestPricer_price_matchesReducedCost(t *testing.T) {
	inst, err := Generate(GeneratorConfig{Nodes: 15, Depots: 3, MapSize: 30}, 17)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(3))
	d := randomDuals(rnd, inst)

	cfg := DefaultConfig()
	cfg.ColumnsPerFacility = 5
	found := pricer{inst: inst, pool: newPool(inst), cfg: cfg}.price(d)
	require.NotEmpty(t, found)

	for _, c := range found {
		col := newColumn(inst, c.slot, c.radius)
		assert.InDelta(t, d.reducedCost(col), c.rc, eps)
		assert.Equal(t, col.Size(), c.size)
		assert.Less(t, c.rc, -cfg.Tolerance)
	}
}

func TestPricer_price_workersAgree(t *testing.T) {
	inst, err := Generate(GeneratorConfig{Nodes: 25, Depots: 4, MapSize: 40}, 23)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(5))
	for round := 0; round < 5; round++ {
		d := randomDuals(rnd, inst)

		cfg := DefaultConfig()
		cfg.ColumnsPerFacility = 2
		cfg.MaxColumnsPerRound = 10

		cfg.PricingWorkers = 1
		serial := pricer{inst: inst, pool: newPool(inst), cfg: cfg}.price(d)
		cfg.PricingWorkers = 6
		parallel := pricer{inst: inst, pool: newPool(inst), cfg: cfg}.price(d)

		assert.Equal(t, serial, parallel)
	}
}

func TestMostNegative(t *testing.T) {
	cols := []priced{
		{slot: 0, rc: -1},
		{slot: 1, rc: -4},
		{slot: 2, rc: -2},
		{slot: 3, rc: -3},
	}

	got := mostNegative(cols, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].slot)
	assert.Equal(t, 3, got[1].slot)

	assert.Len(t, mostNegative(cols, 10), 4)
}

func randomDuals(rnd *rand.Rand, inst *Instance) duals {
	d := duals{
		cover:    make([]float64, inst.NumNodes()),
		facility: make([]float64, len(inst.candidates)),
		count:    rnd.Float64()*10 - 5,
	}
	for u := range d.cover {
		d.cover[u] = rnd.Float64() * 20
	}
	for k := range d.facility {
		d.facility[k] = -rnd.Float64() * 5
	}
	return d
}
