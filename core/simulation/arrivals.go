package simulation

import (
	"fmt"
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
)

func orderArrivalEvent(at float64, hole int) model.Event {
	return model.Event{AtTime: at, Kind: model.OrderArrival, Payload: hole, Detail: fmt.Sprintf("hole %d", hole)}
}

// scheduleArrivals lays down every OrderArrival event for the scenario's
// duration up front, using the seeded rng so that replaying the same
// (config, seed) pair produces the identical arrival timeline (spec §8,
// "Reproducibility"). Grounded on
// _examples/original_source/src/simulation_engine.py's
// schedule_order_generation, which draws a Gaussian-jittered inter-arrival
// gap (floored at half a minute) and a uniform target hole, repeating
// until the scenario's duration is exhausted.
func (e *Engine) scheduleArrivals(rng *rand.Rand) {
	const minIntervalMin = 0.5
	t := 0.0
	for {
		gap := rng.NormFloat64()*e.params.OrderIntervalVarianceMin + e.params.OrderIntervalMin
		if e.params.VolumeMultiplier > 0 {
			gap /= e.params.VolumeMultiplier
		}
		if gap < minIntervalMin {
			gap = minIntervalMin
		}
		t += gap
		if t >= e.params.DurationMin {
			return
		}
		hole := rng.Intn(18) + 1
		e.schedule(orderArrivalEvent(t, hole))
	}
}
