package dispatch

import "github.com/fairwaydispatch/caddie/core/factory"

// NewStrategyRegistry returns a factory registry pre-populated with every
// built-in strategy the specification requires to be selectable by name
// (§4.4), keyed by the name a scenario config's "strategy" field carries, mirroring the teacher's factory.Registry[T] usage for other
// pluggable components.
func NewStrategyRegistry() *factory.Registry[Strategy] {
	reg := factory.NewRegistry[Strategy]()

	register := func(name string, s Strategy) {
		strategy := s
		_ = reg.Register(name, func(map[string]any) (Strategy, error) { return strategy, nil })
	}

	register("FASTEST_ETA", WeightedStrategy{StrategyName: "FASTEST_ETA", Scorer: DefaultScorer{ETAWeight: 1}})
	register("CART_PREFERENCE", WeightedStrategy{StrategyName: "CART_PREFERENCE", Scorer: NewDefaultScorer()})
	register("ZONE_OPTIMAL", WeightedStrategy{StrategyName: "ZONE_OPTIMAL", Scorer: DefaultScorer{
		ETAWeight: 0.5, DistanceWeight: 1.0, AssetTypeWeight: 0.3, PredictabilityWeight: 0.2,
	}})
	register("BATCH_ORDERS", WeightedStrategy{StrategyName: "BATCH_ORDERS", Scorer: NewDefaultScorer(), BatchBias: 0.5})
	register("NEAREST", WeightedStrategy{StrategyName: "NEAREST", Scorer: DefaultScorer{ETAWeight: 1}, NoBatching: true})
	register("LOAD_BALANCED", LoadBalancedStrategy{})
	register("RANDOM", RandomStrategy{})

	return reg
}
