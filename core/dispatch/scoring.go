package dispatch

import (
	"math"
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/prediction"
	"github.com/fairwaydispatch/caddie/core/registry"
)

// DefaultScorer implements the specification's multi-factor scoring
// formula. Unlike the teacher's SmartDispatcher weights, which are tuned
// per flexibility-signal type at dispatch time, these weights are fixed
// constants of the named strategy (FASTEST_ETA, ZONE_OPTIMAL, ...) that
// embeds this scorer, so the struct carries no signal-dependent branch.
type DefaultScorer struct {
	ETAWeight            float64
	DistanceWeight       float64
	AssetTypeWeight      float64
	PredictabilityWeight float64
}

// NewDefaultScorer returns the specification's default weights, used by
// the CART_PREFERENCE strategy.
func NewDefaultScorer() DefaultScorer {
	return DefaultScorer{
		ETAWeight:            1.0,
		DistanceWeight:       0.5,
		AssetTypeWeight:      0.3,
		PredictabilityWeight: 0.2,
	}
}

func (s DefaultScorer) score(asset registry.AssetView, order model.Order, batch []model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (ScoreResult, error) {
	kind := kindOf(asset)

	var eta float64
	var err error
	if len(batch) <= 1 {
		eta, err = snap.Course.ETA(asset.Location, order.TargetHole, kind, snap.Bucket)
	} else {
		ordered := orderByForwardPath(snap.Course, asset, batch, snap.Bucket)
		eta, err = routeCost(snap.Course, asset, ordered, snap.Bucket, snap.Tunables)
	}
	if err != nil {
		return ScoreResult{}, err
	}
	if math.IsInf(eta, 1) {
		return ScoreResult{Final: math.Inf(1), ETA: eta}, nil
	}

	distance, err := snap.Course.DistanceToClubhouse(order.TargetHole)
	if err != nil {
		return ScoreResult{}, err
	}

	assetType := 0.0
	if kind == model.KindBeverageCart && eta <= snap.Tunables.CartPreferenceWindowMin {
		assetType = -1
	}

	variance := predictabilityVariance(eta, snap.Tunables, rng)

	info := prediction.CandidateInfo{
		AssetID:       asset.ID,
		IsCart:        kind == model.KindBeverageCart,
		InLoop:        asset.Serviceable(order.TargetHole),
		DistanceHoles: distance,
		ActiveOrders:  len(asset.Queue),
		OrderValue:    order.TotalValue(),
	}
	acceptance := oracle.AcceptanceProbability(info, rng)

	comp := ScoreComponents{
		ETAScore:            eta,
		DistanceScore:       distance,
		AssetTypeScore:      assetType,
		PredictabilityScore: variance,
	}
	final := s.ETAWeight*comp.ETAScore +
		s.DistanceWeight*comp.DistanceScore +
		s.AssetTypeWeight*comp.AssetTypeScore +
		s.PredictabilityWeight*comp.PredictabilityScore

	return ScoreResult{
		Final:          final,
		ETA:            eta,
		PredictedHole:  order.TargetHole,
		AcceptanceProb: acceptance,
		Components:     comp,
	}, nil
}

// predictabilityVariance approximates sigma-squared, the variance of the
// predicted drop-off hole under player-pace uncertainty, by jittering the
// ETA within a fixed band and converting minutes-squared variance to
// holes-squared variance via the configured pace. The oracle interface
// has no dedicated "predicted hole distribution" method, so this samples
// through the shared seeded rng instead; see DESIGN.md.
func predictabilityVariance(eta float64, tunables model.Tunables, rng *rand.Rand) float64 {
	const samples = 8
	const jitter = 0.2
	var sum, sumSq float64
	for i := 0; i < samples; i++ {
		v := eta * (1 + (rng.Float64()-0.5)*jitter)
		sum += v
		sumSq += v * v
	}
	mean := sum / samples
	variance := sumSq/samples - mean*mean
	if variance < 0 {
		variance = 0
	}
	if tunables.PlayerPaceMin <= 0 {
		return 0
	}
	return variance / (tunables.PlayerPaceMin * tunables.PlayerPaceMin)
}
