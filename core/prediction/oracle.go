package prediction

import (
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
)

// CandidateInfo carries the asset-side facts the acceptance model needs,
// kept separate from model.Asset so the oracle has no dependency on the
// registry package.
type CandidateInfo struct {
	AssetID       string
	IsCart        bool
	InLoop        bool // true if the order's target hole is in the cart's loop
	DistanceHoles float64
	ActiveOrders  int
	OrderValue    float64
}

// Oracle is the prediction interface strategies and the batching planner
// consult. Implementations must be side-effect free: identical inputs
// (including the rng's consumed state) yield identical outputs, which is
// what makes replaying a captured snapshot through strategy.score
// reproducible (§8, "Strategy purity").
type Oracle interface {
	PrepTime(order model.Order, rng *rand.Rand) float64
	TravelTime(course *model.CourseMap, loc model.Location, target int, kind model.AssetKind, bucket model.TimeBucket, rng *rand.Rand) (float64, error)
	AcceptanceProbability(c CandidateInfo, rng *rand.Rand) float64
}

// FallbackDefaults are the deterministic values substituted when the oracle
// is unavailable (§7, OracleUnavailable).
const (
	FallbackPrepMinutes       = 10.0
	FallbackTravelPerHole     = 1.5
	FallbackAcceptanceProb    = 0.8
)
