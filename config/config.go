package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fairwaydispatch/caddie/core/model"
)

// Scenario is the loadable definition of one simulation run (spec §6): the
// course layout, fleet roster, item catalog, dispatch strategy, sim-clock
// parameters, and targets used to score KPIs.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Course  CourseMapConfig `json:"course"`
	Fleet   FleetConfig     `json:"fleet"`
	Catalog []ItemConfig    `json:"item_catalog,omitempty"`

	Strategy string `json:"strategy"` // registered name in dispatch.NewStrategyRegistry

	SimulationDurationMin    float64 `json:"simulation_duration_min"`
	OrderIntervalMin         float64 `json:"order_interval_min"`
	OrderIntervalVarianceMin float64 `json:"order_interval_variance_min"`
	VolumeMultiplier         float64 `json:"volume_multiplier"`

	TargetDeliveryTimeMin float64 `json:"target_delivery_time_min"`
	TargetWaitTimeMin     float64 `json:"target_wait_time_min"`

	RNGSeed         int64 `json:"rng_seed"`
	DetailedLogging bool  `json:"detailed_logging,omitempty"`
	LocationTickMin float64 `json:"location_tick_min,omitempty"`

	Tunables model.Tunables `json:"tunables"`
	Logging  LoggingConfig  `json:"logging"`
}

// SetDefaults fills in every field a scenario fixture is allowed to omit,
// matching the teacher's LoggingConfig.SetDefaults pattern.
func (s *Scenario) SetDefaults() {
	if s.Strategy == "" {
		s.Strategy = "CART_PREFERENCE"
	}
	if s.SimulationDurationMin == 0 {
		s.SimulationDurationMin = 240
	}
	if s.OrderIntervalMin == 0 {
		s.OrderIntervalMin = 8
	}
	if s.VolumeMultiplier == 0 {
		s.VolumeMultiplier = 1
	}
	if s.TargetDeliveryTimeMin == 0 {
		s.TargetDeliveryTimeMin = 20
	}
	if s.TargetWaitTimeMin == 0 {
		s.TargetWaitTimeMin = 10
	}
	if s.LocationTickMin == 0 {
		s.LocationTickMin = 1
	}
	if (s.Tunables == model.Tunables{}) {
		s.Tunables = model.DefaultTunables()
	}
	s.Logging.SetDefaults()
}

// Validate checks mandatory invariants beyond what SetDefaults can repair.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("config: scenario name is required")
	}
	if err := s.Fleet.Validate(); err != nil {
		return err
	}
	if s.SimulationDurationMin <= 0 {
		return fmt.Errorf("config: simulation_duration_min must be > 0")
	}
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// BuildCourse returns the scenario's course map, or DefaultCourseMap.
func (s Scenario) BuildCourse() (*model.CourseMap, error) {
	return s.Course.Build()
}

// BuildFleet returns the scenario's asset roster.
func (s Scenario) BuildFleet() ([]model.Asset, error) {
	return s.Fleet.Build()
}

// BuildCatalog returns the scenario's item catalog, or DefaultItemCatalog.
func (s Scenario) BuildCatalog() []model.Item {
	return BuildCatalog(s.Catalog)
}

// Load reads a Scenario from a YAML or JSON file, applying K_-prefixed
// environment overrides the same way the teacher's config loader did.
func Load(path string) (*Scenario, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Scenario
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
