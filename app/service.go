package app

import (
	"context"
	"fmt"

	"github.com/fairwaydispatch/caddie/config"
	"github.com/fairwaydispatch/caddie/core/dispatch"
	"github.com/fairwaydispatch/caddie/core/dispatch/logging"
	"github.com/fairwaydispatch/caddie/core/factory"
	coremetrics "github.com/fairwaydispatch/caddie/core/metrics"
	"github.com/fairwaydispatch/caddie/core/prediction"
	"github.com/fairwaydispatch/caddie/core/simulation"
	"github.com/fairwaydispatch/caddie/infra/logger"
	"github.com/fairwaydispatch/caddie/internal/eventbus"
)

// Service wires a loaded Scenario into a runnable simulation.Engine, the
// way the teacher's Service wired a loaded Config into a DispatchManager.
type Service struct {
	Engine *simulation.Engine
	log    logger.Logger
}

// New builds a Service from a Scenario: the course map, fleet roster, item
// catalog, dispatch strategy, decision log store, and prediction oracle all
// come from the scenario, mirroring the teacher's pattern of deriving every
// collaborator from one loaded Config.
func New(cfg *config.Scenario) (*Service, error) {
	logg := logger.New("service")

	course, err := cfg.BuildCourse()
	if err != nil {
		return nil, fmt.Errorf("course map: %w", err)
	}
	fleet, err := cfg.BuildFleet()
	if err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	catalog := cfg.BuildCatalog()

	strategies := dispatch.NewStrategyRegistry()
	strategy, err := strategies.Create(factory.ModuleConfig{Type: cfg.Strategy})
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Strategy, err)
	}

	var store logging.Store
	switch cfg.Logging.Backend {
	case "", "jsonl":
		if cfg.Logging.MaxSizeMB > 0 {
			store, err = logging.NewRotatingJSONLStore(cfg.Logging.Path, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)
		} else {
			store, err = logging.NewJSONLStore(cfg.Logging.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("decision log store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported logging backend %q", cfg.Logging.Backend)
	}

	oracle := prediction.SafeOracle{Inner: prediction.DefaultOracle{}}
	bus := eventbus.New()

	params := simulation.Params{
		DurationMin:              cfg.SimulationDurationMin,
		OrderIntervalMin:         cfg.OrderIntervalMin,
		OrderIntervalVarianceMin: cfg.OrderIntervalVarianceMin,
		VolumeMultiplier:         cfg.VolumeMultiplier,
		TargetDeliveryMin:        cfg.TargetDeliveryTimeMin,
		TargetWaitMin:            cfg.TargetWaitTimeMin,
		Seed:                     cfg.RNGSeed,
		DetailedLogging:          cfg.DetailedLogging,
		LocationTickMin:          cfg.LocationTickMin,
	}

	engine := simulation.NewEngine(course, fleet, catalog, strategy, oracle, cfg.Tunables, params, store, bus)
	return &Service{Engine: engine, log: logg}, nil
}

// Run executes the scenario to completion and returns its KPI report.
func (s *Service) Run(ctx context.Context) (coremetrics.Report, error) {
	summary, err := s.Engine.Run(ctx)
	if err != nil {
		return coremetrics.Report{}, fmt.Errorf("simulation run: %w", err)
	}
	return summary.KPIs(), nil
}
