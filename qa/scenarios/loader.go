package scenarios

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expected pins the pass/fail bounds a scenario fixture checks the KPI
// report against, grounded on spec §8's six concrete scenarios (each is a
// range or exact count, never a bit-for-bit report match except the
// reproducibility scenario, which instead compares two runs to each other).
type Expected struct {
	MinDelivered   int     `yaml:"min_delivered,omitempty"`
	MaxUndelivered int     `yaml:"max_undelivered,omitempty"`
	MinBatchedPct  float64 `yaml:"min_batched_pct,omitempty"`
	Reproducible   bool    `yaml:"reproducible,omitempty"`
}

// Fixture pairs a scenario config file with the expectations a test run
// against it must satisfy. ScenarioPath is relative to the fixture file's
// own directory.
type Fixture struct {
	Name         string   `yaml:"name"`
	ScenarioPath string   `yaml:"scenario"`
	Expected     Expected `yaml:"expected"`
}

// Load reads a fixture descriptor (not the scenario config itself, which is
// loaded separately via config.Load once the fixture names it).
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	if fx.Name == "" {
		fx.Name = strings.TrimSuffix(path, ".fixture.yaml")
	}
	return &fx, nil
}
