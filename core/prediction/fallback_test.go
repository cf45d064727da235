package prediction

import (
	"math/rand"
	"testing"

	"github.com/fairwaydispatch/caddie/core/model"
)

type panickingOracle struct{}

func (panickingOracle) PrepTime(order model.Order, rng *rand.Rand) float64 { panic("boom") }

func (panickingOracle) TravelTime(course *model.CourseMap, loc model.Location, target int, kind model.AssetKind, bucket model.TimeBucket, rng *rand.Rand) (float64, error) {
	panic("boom")
}

func (panickingOracle) AcceptanceProbability(c CandidateInfo, rng *rand.Rand) float64 { panic("boom") }

func TestSafeOracle_PrepTime_FallsBackOnPanic(t *testing.T) {
	s := SafeOracle{Inner: panickingOracle{}}
	got := s.PrepTime(model.Order{}, nil)
	if got != FallbackPrepMinutes {
		t.Errorf("expected fallback %v, got %v", FallbackPrepMinutes, got)
	}
}

func TestSafeOracle_TravelTime_FallsBackOnPanic(t *testing.T) {
	s := SafeOracle{Inner: panickingOracle{}}
	got, err := s.TravelTime(nil, model.Location{}, 6, model.KindDeliveryStaff, model.Afternoon, nil)
	if err != nil {
		t.Fatalf("expected recovered error to be nil, got %v", err)
	}
	want := FallbackTravelPerHole * 6
	if got != want {
		t.Errorf("expected fallback travel time %v, got %v", want, got)
	}
}

func TestSafeOracle_AcceptanceProbability_FallsBackOnPanic(t *testing.T) {
	s := SafeOracle{Inner: panickingOracle{}}
	got := s.AcceptanceProbability(CandidateInfo{}, nil)
	if got != FallbackAcceptanceProb {
		t.Errorf("expected fallback %v, got %v", FallbackAcceptanceProb, got)
	}
}

func TestSafeOracle_PassesThroughWhenInnerSucceeds(t *testing.T) {
	s := SafeOracle{Inner: StaticOracle{Prep: 3, Travel: 4, Acceptance: 0.5}}
	if got := s.PrepTime(model.Order{}, nil); got != 3 {
		t.Errorf("expected passthrough prep time 3, got %v", got)
	}
	if got := s.AcceptanceProbability(CandidateInfo{}, nil); got != 0.5 {
		t.Errorf("expected passthrough acceptance 0.5, got %v", got)
	}
}
