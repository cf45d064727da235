package prediction

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fairwaydispatch/caddie/core/model"
)

func TestDefaultOracle_PrepTime_NoItemsFallsBack(t *testing.T) {
	o := DefaultOracle{}
	got := o.PrepTime(model.Order{}, nil)
	if got != FallbackPrepMinutes {
		t.Errorf("expected fallback %v, got %v", FallbackPrepMinutes, got)
	}
}

func TestDefaultOracle_PrepTime_ScalesWithComplexityAndQuantity(t *testing.T) {
	o := DefaultOracle{}
	simple := o.PrepTime(model.Order{Items: []model.Item{{Quantity: 2, Complexity: model.Simple}}}, nil)
	complex := o.PrepTime(model.Order{Items: []model.Item{{Quantity: 2, Complexity: model.Complex}}}, nil)
	if complex <= simple {
		t.Errorf("expected complex prep time > simple, got complex=%v simple=%v", complex, simple)
	}
	if simple < 1 {
		t.Errorf("expected prep time floored at 1 minute, got %v", simple)
	}
}

func testCourseMap(t *testing.T) *model.CourseMap {
	t.Helper()
	segs := make([]model.Segment, 0, 18)
	for h := 1; h <= 9; h++ {
		to := h + 1
		if h == 9 {
			to = 1
		}
		segs = append(segs, model.Segment{From: h, To: to, AvgMinute: 3})
	}
	for h := 10; h <= 18; h++ {
		to := h + 1
		if h == 18 {
			to = 10
		}
		segs = append(segs, model.Segment{From: h, To: to, AvgMinute: 3})
	}
	c, err := model.NewCourseMap(segs, map[int]float64{1: 2, 10: 2})
	if err != nil {
		t.Fatalf("course map: %v", err)
	}
	return c
}

func TestDefaultOracle_TravelTime_PassesThroughInfinity(t *testing.T) {
	o := DefaultOracle{}
	c := testCourseMap(t)
	got, err := o.TravelTime(c, model.AtHole(1), 14, model.KindBeverageCart, model.Afternoon, nil)
	if err != nil {
		t.Fatalf("travel time: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Errorf("expected +Inf passed through unperturbed, got %v", got)
	}
}

func TestDefaultOracle_TravelTime_FloorsAtHalfMinute(t *testing.T) {
	o := DefaultOracle{}
	c := testCourseMap(t)
	got, err := o.TravelTime(c, model.AtHole(5), 5, model.KindBeverageCart, model.Afternoon, nil)
	if err != nil {
		t.Fatalf("travel time: %v", err)
	}
	if got < 0.5 {
		t.Errorf("expected floor of 0.5, got %v", got)
	}
}

func TestDefaultOracle_AcceptanceProbability_ClampedRange(t *testing.T) {
	o := DefaultOracle{}
	low := o.AcceptanceProbability(CandidateInfo{IsCart: true, InLoop: false, DistanceHoles: 100, ActiveOrders: 10}, nil)
	if low != 0.10 {
		t.Errorf("expected floor 0.10, got %v", low)
	}
	high := o.AcceptanceProbability(CandidateInfo{IsCart: true, InLoop: true, OrderValue: 100}, nil)
	if math.Abs(high-0.95) > 1e-9 {
		t.Errorf("expected 0.95 (0.80+0.10+0.05, under the 1.00 ceiling), got %v", high)
	}
}

func TestDefaultOracle_AcceptanceProbability_CartInLoopBonus(t *testing.T) {
	o := DefaultOracle{}
	inLoop := o.AcceptanceProbability(CandidateInfo{IsCart: true, InLoop: true}, nil)
	offLoop := o.AcceptanceProbability(CandidateInfo{IsCart: true, InLoop: false}, nil)
	if inLoop <= offLoop {
		t.Errorf("expected in-loop cart bonus to exceed off-loop penalty, got %v vs %v", inLoop, offLoop)
	}
}

func TestPerturb_DeterministicWithSeed(t *testing.T) {
	r1 := rand.New(rand.NewSource(1))
	r2 := rand.New(rand.NewSource(1))
	a := perturb(10, 0.2, r1)
	b := perturb(10, 0.2, r2)
	if a != b {
		t.Errorf("expected identical perturbation for identical seeds, got %v vs %v", a, b)
	}
	if a < 8 || a > 12 {
		t.Errorf("expected perturbation within +-20%%, got %v", a)
	}
}
