package prediction

import (
	"math"
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
)

// DefaultOracle implements the specification's §4.2 formulas.
type DefaultOracle struct{}

// PrepTime: base = 2*sum(quantity), scaled by the max complexity factor
// across items and by a quantity-efficiency term sqrt(qty)/qty, perturbed
// +-20%, floored at 1 minute. Orders with no items default to 10 minutes.
func (DefaultOracle) PrepTime(order model.Order, rng *rand.Rand) float64 {
	qty := order.TotalQuantity()
	if qty <= 0 {
		return FallbackPrepMinutes
	}
	base := 2.0 * float64(qty)
	base *= order.MaxComplexity().Factor()
	base *= math.Sqrt(float64(qty)) / float64(qty)
	base = perturb(base, 0.20, rng)
	if base < 1 {
		base = 1
	}
	return base
}

// TravelTime delegates to the course map's ETA model and applies a further
// +-10% perturbation, floored at 0.5 minutes. +Inf (cart zone mismatch) is
// returned unperturbed since it represents ineligibility, not a duration.
func (DefaultOracle) TravelTime(course *model.CourseMap, loc model.Location, target int, kind model.AssetKind, bucket model.TimeBucket, rng *rand.Rand) (float64, error) {
	base, err := course.ETA(loc, target, kind, bucket)
	if err != nil {
		return 0, err
	}
	if math.IsInf(base, 1) {
		return base, nil
	}
	t := perturb(base, 0.10, rng)
	if t < 0.5 {
		t = 0.5
	}
	return t, nil
}

// AcceptanceProbability: starts at 0.80, loses 0.05 per hole of distance to
// pickup and 0.10 per active order on the candidate; carts get +0.10 if the
// order is in-loop or -0.30 otherwise (effectively disqualifying); orders
// over $50 add +0.05. Clamped to [0.10, 1.00].
func (DefaultOracle) AcceptanceProbability(c CandidateInfo, rng *rand.Rand) float64 {
	p := 0.80
	p -= 0.05 * c.DistanceHoles
	p -= 0.10 * float64(c.ActiveOrders)
	if c.IsCart {
		if c.InLoop {
			p += 0.10
		} else {
			p -= 0.30
		}
	}
	if c.OrderValue > 50 {
		p += 0.05
	}
	if p < 0.10 {
		p = 0.10
	}
	if p > 1.00 {
		p = 1.00
	}
	return p
}

// perturb applies a uniform multiplicative perturbation in
// [1-frac, 1+frac] using rng, or returns base unchanged when rng is nil
// (deterministic callers, e.g. unit tests exercising the formula in
// isolation).
func perturb(base, frac float64, rng *rand.Rand) float64 {
	if rng == nil {
		return base
	}
	delta := (rng.Float64()*2 - 1) * frac
	return base * (1 + delta)
}

// Sample draws a Bernoulli outcome from p using rng.
func Sample(p float64, rng *rand.Rand) bool {
	return rng.Float64() < p
}
