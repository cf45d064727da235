package dispatch

import (
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/prediction"
	"github.com/fairwaydispatch/caddie/core/registry"
)

// DecisionKind is the outcome of a Strategy's choose() call.
type DecisionKind int

const (
	Assign DecisionKind = iota
	Delay
	NoCandidate
)

// Decision is what a Strategy returns for one order under dispatch.
type Decision struct {
	Kind       DecisionKind
	AssetID    string
	BatchWith  []string // sibling order IDs, when Kind == Assign and this is a batch
	DelayUntil float64
}

// ScoreComponents breaks the final score down by the four terms of the
// default weighted formula (spec §4.4).
type ScoreComponents struct {
	ETAScore            float64
	DistanceScore       float64
	AssetTypeScore      float64
	PredictabilityScore float64
	BatchAdjustment     float64
}

// ScoreResult is score()'s return value. Lower Final is better.
type ScoreResult struct {
	Final          float64
	ETA            float64
	PredictedHole  int
	AcceptanceProb float64
	Components     ScoreComponents
}

// Snapshot is the read-only fleet-and-order state a Strategy consults.
// Every field is either immutable or a defensive copy, so a strategy
// holding one cannot observe or cause mutation of live registry state.
type Snapshot struct {
	Course   *model.CourseMap
	Assets   []registry.AssetView
	Pending  []model.Order
	Bucket   model.TimeBucket
	Tunables model.Tunables
}

// Strategy chooses an assignment for one order against a fleet snapshot.
type Strategy interface {
	Name() string
	Choose(order model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (Decision, error)
}

// ScoringStrategy is implemented by strategies that can also report a
// per-candidate score breakdown; baselines like RANDOM and LOAD_BALANCED
// need not implement it, mirroring how the teacher's manager type-asserts
// for an optional ScoringDispatcher before reporting per-vehicle scores.
type ScoringStrategy interface {
	Score(assetID string, order model.Order, batch []model.Order, snap Snapshot, oracle prediction.Oracle, rng *rand.Rand) (ScoreResult, error)
}

func findAsset(assets []registry.AssetView, id string) (registry.AssetView, bool) {
	for _, a := range assets {
		if a.ID == id {
			return a, true
		}
	}
	return registry.AssetView{}, false
}

func kindOf(a registry.AssetView) model.AssetKind {
	if a.IsCart {
		return model.KindBeverageCart
	}
	return model.KindDeliveryStaff
}

func siblingIDs(orderID string, batch []model.Order) []string {
	if len(batch) <= 1 {
		return nil
	}
	out := make([]string, 0, len(batch)-1)
	for _, o := range batch {
		if o.ID != orderID {
			out = append(out, o.ID)
		}
	}
	return out
}

// candidatePool builds the per-order candidate set (spec §4.4): every
// asset that could ever serve the order's hole and is either Available now
// or "soon available". The registry does not track a live time-to-free
// figure per busy asset, so soon-available is approximated as any asset
// that is neither Offline nor OfferPending and has an empty queue (it holds no further committed
// drop and is expected back within SOON_AVAILABLE_MIN); see DESIGN.md.
func candidatePool(order model.Order, snap Snapshot) []registry.AssetView {
	var pool []registry.AssetView
	for _, a := range snap.Assets {
		if !a.Serviceable(order.TargetHole) {
			continue
		}
		switch {
		case a.Status == model.Available:
			pool = append(pool, a)
		case a.Status != model.Offline && a.Status != model.OfferPending && len(a.Queue) == 0:
			pool = append(pool, a)
		}
	}
	return pool
}
