package zebra

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/mat"
)

// Metric measures the distance between two node locations.
type Metric int

const (
	Manhattan Metric = iota
	Euclidean
)

func (m Metric) String() string {
	switch m {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	default:
		return "unknown"
	}
}

func (m Metric) distance(a, b Node) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	if m == Euclidean {
		return math.Hypot(dx, dy)
	}
	return math.Abs(dx) + math.Abs(dy)
}

// FromCoordinates builds an instance from node locations. Node i of the
// instance is nodes[i]; a zero Demand counts as 1.
func FromCoordinates(nodes []Node, metric Metric, p int, opts ...InstanceOption) (*Instance, error) {
	if metric != Manhattan && metric != Euclidean {
		return nil, invalidf("unknown metric %d", int(metric))
	}
	n := len(nodes)
	if n == 0 {
		return nil, invalidf("empty node set")
	}

	dist := mat.NewDense(n, n, nil)
	demand := make([]float64, n)
	for i, a := range nodes {
		demand[i] = a.Demand
		if demand[i] == 0 {
			demand[i] = 1
		}
		for j := i + 1; j < n; j++ {
			d := metric.distance(a, nodes[j])
			dist.Set(i, j, d)
			dist.Set(j, i, d)
		}
	}

	opts = append([]InstanceOption{WithDemands(demand), WithNodes(nodes)}, opts...)
	return NewInstance(dist, p, opts...)
}

// FromGraph builds an instance whose distances are shortest path lengths in g.
// Node IDs must be 0..n-1, edge weights nonnegative and g connected. Graphs
// that do not implement graph.Weighted count every edge as 1.
func FromGraph(g graph.Graph, p int, opts ...InstanceOption) (*Instance, error) {
	nodes := graph.NodesOf(g.Nodes())
	n := len(nodes)
	if n == 0 {
		return nil, invalidf("empty node set")
	}
	for _, u := range nodes {
		if id := u.ID(); id < 0 || id >= int64(n) {
			return nil, invalidf("node id %d out of range [0, %d)", id, n)
		}
	}

	if wg, ok := g.(graph.Weighted); ok {
		for _, u := range nodes {
			for _, v := range graph.NodesOf(g.From(u.ID())) {
				if w, _ := wg.Weight(u.ID(), v.ID()); w < 0 || math.IsNaN(w) {
					return nil, invalidf("edge (%d, %d) has weight %v", u.ID(), v.ID(), w)
				}
			}
		}
	}

	paths := path.DijkstraAllPaths(g)
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w := paths.Weight(int64(i), int64(j))
			if math.IsInf(w, 1) {
				return nil, invalidf("node %d is unreachable from node %d", j, i)
			}
			dist.Set(i, j, w)
		}
	}

	return NewInstance(dist, p, opts...)
}

// GeneratorConfig describes a random instance: Nodes locations with integer
// coordinates in [0, MapSize]² and p = Depots.
type GeneratorConfig struct {
	Nodes   int `yaml:"nodes"`
	Depots  int `yaml:"depots"`
	MapSize int `yaml:"map_size"`
}

func (c GeneratorConfig) Validate() error {
	switch {
	case c.Nodes <= 1:
		return invalidf("nodes = %d, want > 1", c.Nodes)
	case c.Depots <= 0:
		return invalidf("depots = %d, want > 0", c.Depots)
	case c.Depots > c.Nodes:
		return invalidf("there cannot be more depots (%d) than nodes (%d)", c.Depots, c.Nodes)
	case c.MapSize <= 0:
		return invalidf("map size = %d, want > 0", c.MapSize)
	}
	return nil
}

// MinSeed is the smallest seed Generate accepts.
const MinSeed = 10

// Generate builds a reproducible random instance with Manhattan distances where
// every node is a candidate facility.
func Generate(cfg GeneratorConfig, seed int64) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if seed < MinSeed {
		return nil, invalidf("seed = %d, want >= %d", seed, MinSeed)
	}

	rnd := rand.New(rand.NewSource(seed))
	nodes := make([]Node, cfg.Nodes)
	for i := range nodes {
		nodes[i] = Node{
			ID:     i,
			Demand: 1,
			X:      float64(rnd.Intn(cfg.MapSize + 1)),
			Y:      float64(rnd.Intn(cfg.MapSize + 1)),
		}
	}

	return FromCoordinates(nodes, Manhattan, cfg.Depots)
}
