package zebra

import (
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig(t *testing.T) {
	doc := `
max_iterations: 20
time_limit: 1m30s
pricing_workers: 4
columns_per_facility: 2
max_columns_per_round: 50
radius_selection: largest_coverage
branch_heuristic: max_fun
node_limit: 1000
verbose: true
seed_columns:
  - facility: 3
    radius: 12.5
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.TimeLimit)
	assert.Equal(t, 4, cfg.PricingWorkers)
	assert.Equal(t, 2, cfg.ColumnsPerFacility)
	assert.Equal(t, 50, cfg.MaxColumnsPerRound)
	assert.Equal(t, LargestCoverage, cfg.RadiusSelection)
	assert.Equal(t, "max_fun", cfg.BranchHeuristic)
	assert.Equal(t, 1000, cfg.NodeLimit)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []SeedColumn{{Facility: 3, Radius: 12.5}}, cfg.SeedColumns)

	// fields missing from the document keep their defaults
	assert.Equal(t, DefaultConfig().Tolerance, cfg.Tolerance)
}

func TestLoadConfig_empty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "max_iteration: 3"},
		{name: "unknown radius selection", doc: "radius_selection: smallest"},
		{name: "unknown branch heuristic", doc: "branch_heuristic: random"},
		{name: "negative iterations", doc: "max_iterations: -1"},
		{name: "zero time limit", doc: "time_limit: 0s"},
		{name: "zero columns per facility", doc: "columns_per_facility: 0"},
		{name: "zero tolerance", doc: "tolerance: 0"},
		{name: "not yaml", doc: "max_iterations: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.PricingWorkers = -1
	err := cfg.Validate()
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Contains(t, err.Error(), "pricing_workers")

	cfg = DefaultConfig()
	cfg.RadiusSelection = RadiusSelection(9)
	assert.True(t, errors.Is(cfg.Validate(), errors.NotValid))
}

func TestRadiusSelection(t *testing.T) {
	for _, r := range []RadiusSelection{MostNegative, LargestCoverage} {
		parsed, err := ParseRadiusSelection(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	assert.Equal(t, "RadiusSelection(7)", RadiusSelection(7).String())

	_, err := ParseRadiusSelection("closest")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestConfig_marshal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RadiusSelection = LargestCoverage
	cfg.Logger = logrus.New()

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "radius_selection: largest_coverage")
	assert.NotContains(t, string(out), "logger")

	back, err := LoadConfig(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, LargestCoverage, back.RadiusSelection)
	assert.Equal(t, cfg.TimeLimit, back.TimeLimit)
}

func TestConfig_logger(t *testing.T) {
	log, ok := DefaultConfig().logger().(*logrus.Logger)
	require.True(t, ok)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	cfg := DefaultConfig()
	cfg.Verbose = true
	log, ok = cfg.logger().(*logrus.Logger)
	require.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	custom := logrus.NewEntry(logrus.New())
	cfg.Logger = custom
	assert.Same(t, custom, cfg.logger())
}
