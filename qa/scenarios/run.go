package scenarios

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fairwaydispatch/caddie/app"
	"github.com/fairwaydispatch/caddie/config"
	coremetrics "github.com/fairwaydispatch/caddie/core/metrics"
)

// RunFixture loads the fixture at fixturePath and the scenario it names,
// runs the scenario to completion, and checks the resulting KPI report
// against the fixture's Expected bounds.
func RunFixture(t *testing.T, fixturePath string) coremetrics.Report {
	t.Helper()
	fx, err := Load(fixturePath)
	if err != nil {
		t.Fatalf("load fixture %s: %v", fixturePath, err)
	}
	scenarioPath := filepath.Join(filepath.Dir(fixturePath), fx.ScenarioPath)
	report := runScenarioFile(t, scenarioPath)

	if fx.Expected.MinDelivered > 0 && report.DeliveredOrders < fx.Expected.MinDelivered {
		t.Errorf("%s: delivered %d, want >= %d", fx.Name, report.DeliveredOrders, fx.Expected.MinDelivered)
	}
	if report.UndeliveredOrders > fx.Expected.MaxUndelivered && fx.Expected.MaxUndelivered > 0 {
		t.Errorf("%s: undelivered %d, want <= %d", fx.Name, report.UndeliveredOrders, fx.Expected.MaxUndelivered)
	}
	if fx.Expected.MinBatchedPct > 0 && report.BatchedPct < fx.Expected.MinBatchedPct {
		t.Errorf("%s: batched_pct %.1f, want >= %.1f", fx.Name, report.BatchedPct, fx.Expected.MinBatchedPct)
	}
	if fx.Expected.Reproducible {
		second := runScenarioFile(t, scenarioPath)
		if !reflect.DeepEqual(report, second) {
			t.Errorf("%s: expected identical KPI reports across runs with the same seed, got %+v vs %+v", fx.Name, report, second)
		}
	}
	return report
}

func runScenarioFile(t *testing.T, path string) coremetrics.Report {
	t.Helper()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load scenario %s: %v", path, err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run scenario %s: %v", path, err)
	}
	return report
}
