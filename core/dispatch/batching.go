package dispatch

import (
	"math"
	"sort"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/registry"
)

// feasibleBatches enumerates every grouping of order with zero or more
// other pending orders that is legal for asset under spec §4.5's three
// feasibility rules, always including the singleton batch {order} as a
// baseline option.
func feasibleBatches(order model.Order, asset registry.AssetView, pending []model.Order, tunables model.Tunables) [][]model.Order {
	out := [][]model.Order{{order}}
	maxExtra := model.MaxBatchSize - 1
	if maxExtra <= 0 {
		return out
	}

	others := make([]model.Order, 0, len(pending))
	for _, p := range pending {
		if p.ID == order.ID {
			continue
		}
		if asset.Serviceable(p.TargetHole) {
			others = append(others, p)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].ID < others[j].ID })

	for size := 1; size <= maxExtra && size <= len(others); size++ {
		combinations(others, size, func(pick []model.Order) {
			batch := append(append([]model.Order{}, order), pick...)
			if feasible(batch, tunables) {
				out = append(out, batch)
			}
		})
	}
	return out
}

// feasible checks rule 1 (size) and rule 3 (pairwise hole distance); rule 2
// (serviceable set) is already enforced by feasibleBatches filtering
// candidates through asset.Serviceable before enumeration.
func feasible(batch []model.Order, tunables model.Tunables) bool {
	if len(batch) > model.MaxBatchSize {
		return false
	}
	for i := 0; i < len(batch); i++ {
		for j := i + 1; j < len(batch); j++ {
			d := batch[i].TargetHole - batch[j].TargetHole
			if d < 0 {
				d = -d
			}
			if d > tunables.AdjacentHoleThreshold {
				return false
			}
		}
	}
	return true
}

// combinations invokes f once per size-element subset of items, in
// lexicographic index order, so callers iterate deterministically.
func combinations(items []model.Order, size int, f func([]model.Order)) {
	n := len(items)
	if size > n {
		return
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		pick := make([]model.Order, size)
		for i, ix := range idx {
			pick[i] = items[ix]
		}
		f(pick)

		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// routeCost implements §4.5's route-time formula over an already
// forward-ordered batch.
func routeCost(course *model.CourseMap, asset registry.AssetView, ordered []model.Order, bucket model.TimeBucket, tunables model.Tunables) (float64, error) {
	if len(ordered) == 0 {
		return 0, nil
	}
	kind := kindOf(asset)
	total, err := course.ETA(asset.Location, ordered[0].TargetHole, kind, bucket)
	if err != nil {
		return 0, err
	}
	if math.IsInf(total, 1) {
		return math.Inf(1), nil
	}
	for i := 1; i < len(ordered); i++ {
		seg, err := course.ETA(model.AtHole(ordered[i-1].TargetHole), ordered[i].TargetHole, kind, bucket)
		if err != nil {
			return 0, err
		}
		if math.IsInf(seg, 1) {
			return math.Inf(1), nil
		}
		total += seg
	}
	k := len(ordered)
	total += tunables.BatchDeliveryTimePenalty * float64(k-1)
	total *= math.Pow(tunables.BatchEfficiencyBonus, float64(k-1))
	return total, nil
}

// orderByForwardPath sequences a batch's drops the way the asset will
// actually encounter them: forward-loop order for carts, a nearest-next
// greedy sweep for free-roaming staff (spec §4.5).
func orderByForwardPath(course *model.CourseMap, asset registry.AssetView, batch []model.Order, bucket model.TimeBucket) []model.Order {
	kind := kindOf(asset)
	if kind == model.KindBeverageCart {
		start := startHole(asset.Location)
		type item struct {
			o    model.Order
			dist float64
		}
		items := make([]item, len(batch))
		for i, o := range batch {
			d, _, err := course.ForwardDistance(start, o.TargetHole)
			if err != nil {
				d = math.Inf(1)
			}
			items[i] = item{o, d}
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].dist != items[j].dist {
				return items[i].dist < items[j].dist
			}
			return items[i].o.ID < items[j].o.ID
		})
		out := make([]model.Order, len(items))
		for i, it := range items {
			out[i] = it.o
		}
		return out
	}

	remaining := append([]model.Order{}, batch...)
	out := make([]model.Order, 0, len(remaining))
	loc := asset.Location
	for len(remaining) > 0 {
		best := -1
		var bestETA float64
		for i, o := range remaining {
			eta, err := course.ETA(loc, o.TargetHole, kind, bucket)
			if err != nil {
				continue
			}
			if best == -1 || eta < bestETA || (eta == bestETA && o.ID < remaining[best].ID) {
				best, bestETA = i, eta
			}
		}
		if best == -1 {
			break
		}
		chosen := remaining[best]
		out = append(out, chosen)
		loc = model.AtHole(chosen.TargetHole)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return out
}

// OrderByForwardPath exposes orderByForwardPath to the simulation engine,
// which needs the same drop sequencing to schedule one delivery event per
// batch member along the asset's actual route.
func OrderByForwardPath(course *model.CourseMap, asset registry.AssetView, batch []model.Order, bucket model.TimeBucket) []model.Order {
	return orderByForwardPath(course, asset, batch, bucket)
}

// RouteCost exposes routeCost to the simulation engine for the same reason.
func RouteCost(course *model.CourseMap, asset registry.AssetView, ordered []model.Order, bucket model.TimeBucket, tunables model.Tunables) (float64, error) {
	return routeCost(course, asset, ordered, bucket, tunables)
}

func startHole(loc model.Location) int {
	if loc.Mid {
		return loc.Segment.From
	}
	return loc.Hole
}
