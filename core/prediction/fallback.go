package prediction

import (
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
)

// SafeOracle wraps another Oracle and substitutes the specification's
// deterministic defaults (§7, OracleUnavailable) whenever the wrapped
// oracle panics. The dispatch strategy never sees an oracle failure
// propagate; correctness is preserved by falling back rather than
// aborting the dispatch decision.
type SafeOracle struct {
	Inner Oracle
}

func (s SafeOracle) PrepTime(order model.Order, rng *rand.Rand) (result float64) {
	defer func() {
		if recover() != nil {
			result = FallbackPrepMinutes
		}
	}()
	return s.Inner.PrepTime(order, rng)
}

func (s SafeOracle) TravelTime(course *model.CourseMap, loc model.Location, target int, kind model.AssetKind, bucket model.TimeBucket, rng *rand.Rand) (result float64, err error) {
	defer func() {
		if recover() != nil {
			err = nil
			result = FallbackTravelPerHole * float64(target)
		}
	}()
	return s.Inner.TravelTime(course, loc, target, kind, bucket, rng)
}

func (s SafeOracle) AcceptanceProbability(c CandidateInfo, rng *rand.Rand) (result float64) {
	defer func() {
		if recover() != nil {
			result = FallbackAcceptanceProb
		}
	}()
	return s.Inner.AcceptanceProbability(c, rng)
}
