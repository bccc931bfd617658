package zebra

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/paulafernalia/p-median-zebra/ilp"
)

// RadiusSelection decides which negative reduced cost radii of one facility
// are returned by pricing first.
type RadiusSelection int

const (
	// MostNegative prefers the smallest reduced cost, then the larger coverage.
	MostNegative RadiusSelection = iota
	// LargestCoverage prefers the larger coverage, then the smallest reduced cost.
	LargestCoverage
)

func (r RadiusSelection) String() string {
	switch r {
	case MostNegative:
		return "most_negative"
	case LargestCoverage:
		return "largest_coverage"
	default:
		return fmt.Sprintf("RadiusSelection(%d)", int(r))
	}
}

func ParseRadiusSelection(s string) (RadiusSelection, error) {
	switch s {
	case "most_negative":
		return MostNegative, nil
	case "largest_coverage":
		return LargestCoverage, nil
	}
	return 0, errors.NotValidf("radius selection %q", s)
}

func (r *RadiusSelection) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRadiusSelection(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r RadiusSelection) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// Config tunes a solve. It can be loaded from YAML with LoadConfig.
type Config struct {
	// pricing rounds whose columns are inserted before the budget is exhausted
	MaxIterations int `yaml:"max_iterations"`

	// wall clock budget, checked between iterations
	TimeLimit time.Duration `yaml:"time_limit"`

	// goroutines scanning facilities during pricing, 0 means GOMAXPROCS
	PricingWorkers int `yaml:"pricing_workers"`

	// negative reduced cost columns kept per facility and round
	ColumnsPerFacility int `yaml:"columns_per_facility"`

	// cap on the columns added per round over all facilities, 0 means no cap
	MaxColumnsPerRound int `yaml:"max_columns_per_round"`

	RadiusSelection RadiusSelection `yaml:"radius_selection"`

	// a column is improving when its reduced cost is below -Tolerance
	Tolerance float64 `yaml:"tolerance"`

	// branch-and-bound settings of the default solver
	BranchWorkers   int    `yaml:"branch_workers"`
	BranchHeuristic string `yaml:"branch_heuristic"`
	NodeLimit       int    `yaml:"node_limit"`

	Verbose bool `yaml:"verbose"`

	// Logger overrides the logger built from Verbose.
	Logger logrus.FieldLogger `yaml:"-"`

	// Solver builds the LP/MIP capability for one solve; nil means the
	// built-in ilp solver.
	Solver SolverFactory `yaml:"-"`

	// SeedColumns are added to the initial pool next to the maximal radius columns.
	SeedColumns []SeedColumn `yaml:"seed_columns"`
}

// DefaultConfig returns the settings used when a field is not configured.
func DefaultConfig() Config {
	return Config{
		MaxIterations:      100,
		TimeLimit:          100 * time.Second,
		ColumnsPerFacility: 1,
		RadiusSelection:    MostNegative,
		Tolerance:          1e-6,
		BranchHeuristic:    ilp.BRANCH_MOST_INFEASIBLE.String(),
	}
}

// Validate reports the first out of range field as a NotValid error.
func (c Config) Validate() error {
	switch {
	case c.MaxIterations < 0:
		return errors.NotValidf("max_iterations = %d", c.MaxIterations)
	case c.TimeLimit <= 0:
		return errors.NotValidf("time_limit = %v", c.TimeLimit)
	case c.PricingWorkers < 0:
		return errors.NotValidf("pricing_workers = %d", c.PricingWorkers)
	case c.ColumnsPerFacility < 1:
		return errors.NotValidf("columns_per_facility = %d", c.ColumnsPerFacility)
	case c.MaxColumnsPerRound < 0:
		return errors.NotValidf("max_columns_per_round = %d", c.MaxColumnsPerRound)
	case c.RadiusSelection != MostNegative && c.RadiusSelection != LargestCoverage:
		return errors.NotValidf("radius_selection = %v", c.RadiusSelection)
	case !(c.Tolerance > 0):
		return errors.NotValidf("tolerance = %v", c.Tolerance)
	case c.BranchWorkers < 0:
		return errors.NotValidf("branch_workers = %d", c.BranchWorkers)
	case c.NodeLimit < 0:
		return errors.NotValidf("node_limit = %d", c.NodeLimit)
	}
	if _, err := ilp.ParseBranchHeuristic(c.BranchHeuristic); err != nil {
		return errors.NewNotValid(err, "branch_heuristic")
	}
	return nil
}

// LoadConfig reads a YAML document on top of DefaultConfig. Unknown fields are
// rejected and the result is validated.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Annotate(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if c.Verbose {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
