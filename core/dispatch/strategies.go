package dispatch

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/prediction"
)

// WeightedStrategy is the common shape behind FASTEST_ETA, CART_PREFERENCE,
// ZONE_OPTIMAL, BATCH_ORDERS and the NEAREST baseline: a named weight
// configuration over DefaultScorer's four terms, differing only in the
// weight values, whether batching is considered at all, and an optional
// per-member batch bias.
type WeightedStrategy struct {
	StrategyName string
	Scorer       DefaultScorer
	NoBatching   bool    // NEAREST: never evaluate batches, singleton only
	BatchBias    float64 // BATCH_ORDERS: extra score subtracted per batch member beyond the first
}

func (s WeightedStrategy) Name() string { return s.StrategyName }

func (s WeightedStrategy) Score(assetID string, order model.Order, batch []model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (ScoreResult, error) {
	asset, ok := findAsset(snap.Assets, assetID)
	if !ok {
		return ScoreResult{}, fmt.Errorf("dispatch: unknown asset %s", assetID)
	}
	res, err := s.Scorer.score(asset, order, batch, snap, oracle, rng)
	if err != nil {
		return ScoreResult{}, err
	}
	if len(batch) > 1 && !math.IsInf(res.Final, 1) {
		res.Components.BatchAdjustment = -s.BatchBias * float64(len(batch)-1)
		res.Final += res.Components.BatchAdjustment
	}
	return res, nil
}

func (s WeightedStrategy) Choose(order model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (Decision, error) {
	pool := candidatePool(order, snap)
	if len(pool) == 0 {
		return Decision{Kind: NoCandidate}, nil
	}

	type option struct {
		assetID string
		batch   []model.Order
		result  ScoreResult
	}
	var best *option
	for _, asset := range pool {
		batches := [][]model.Order{{order}}
		if !s.NoBatching {
			batches = feasibleBatches(order, asset, snap.Pending, snap.Tunables)
		}
		for _, batch := range batches {
			res, err := s.Score(asset.ID, order, batch, snap, oracle, rng)
			if err != nil || math.IsInf(res.Final, 1) {
				continue
			}
			if best == nil || betterOption(res, batch, best.result, best.batch) {
				best = &option{asset.ID, batch, res}
			}
		}
	}
	if best == nil {
		return Decision{Kind: NoCandidate}, nil
	}
	return Decision{Kind: Assign, AssetID: best.assetID, BatchWith: siblingIDs(order.ID, best.batch)}, nil
}

// betterOption implements §4.5's selection tie-break: lower final score
// wins; ties within epsilon prefer the smaller batch (fewer commitments).
func betterOption(a ScoreResult, aBatch []model.Order, b ScoreResult, bBatch []model.Order) bool {
	const epsilon = 0.01
	if math.Abs(a.Final-b.Final) > epsilon {
		return a.Final < b.Final
	}
	return len(aBatch) < len(bBatch)
}

// RandomStrategy is the RANDOM(seed) baseline: it ignores every scoring
// factor and draws uniformly from the candidate pool using the shared
// seeded rng, so repeated runs of the same scenario remain reproducible.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "RANDOM" }

func (RandomStrategy) Choose(order model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (Decision, error) {
	pool := candidatePool(order, snap)
	if len(pool) == 0 {
		return Decision{Kind: NoCandidate}, nil
	}
	return Decision{Kind: Assign, AssetID: pool[rng.Intn(len(pool))].ID}, nil
}

// LoadBalancedStrategy assigns to whichever serviceable candidate holds
// the fewest queued orders, tie-broken by lower asset ID.
type LoadBalancedStrategy struct{}

func (LoadBalancedStrategy) Name() string { return "LOAD_BALANCED" }

func (LoadBalancedStrategy) Choose(order model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (Decision, error) {
	pool := candidatePool(order, snap)
	if len(pool) == 0 {
		return Decision{Kind: NoCandidate}, nil
	}
	best := pool[0]
	for _, a := range pool[1:] {
		if len(a.Queue) < len(best.Queue) || (len(a.Queue) == len(best.Queue) && a.ID < best.ID) {
			best = a
		}
	}
	return Decision{Kind: Assign, AssetID: best.ID}, nil
}
