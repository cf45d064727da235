package prediction

import (
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
)

// StaticOracle returns configured fixed values regardless of input, for
// tests that need to force a specific acceptance outcome (e.g. the decline
// cascade scenario in §8) without depending on the RNG stream.
type StaticOracle struct {
	Prep       float64
	Travel     float64
	Acceptance float64
	// AcceptanceByAsset overrides Acceptance when the candidate's asset
	// ID is present, letting one scenario force different outcomes per
	// candidate (the "forced to 0 for the first ranked, 1 for the second"
	// case in §8 scenario 3).
	AcceptanceByAsset map[string]float64
}

func (m StaticOracle) PrepTime(model.Order, *rand.Rand) float64 {
	if m.Prep == 0 {
		return FallbackPrepMinutes
	}
	return m.Prep
}

func (m StaticOracle) TravelTime(course *model.CourseMap, loc model.Location, target int, kind model.AssetKind, bucket model.TimeBucket, rng *rand.Rand) (float64, error) {
	eta, err := course.ETA(loc, target, kind, bucket)
	if err != nil {
		return 0, err
	}
	if m.Travel != 0 {
		return m.Travel, nil
	}
	return eta, nil
}

func (m StaticOracle) AcceptanceProbability(c CandidateInfo, rng *rand.Rand) float64 {
	if v, ok := m.AcceptanceByAsset[c.AssetID]; ok {
		return v
	}
	if m.Acceptance == 0 {
		return FallbackAcceptanceProb
	}
	return m.Acceptance
}
