package metrics

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// OrderSample is the accumulated lifecycle record for one order, mirroring
// simulation_summary.py's OrderMetrics.
type OrderSample struct {
	OrderID     string
	Hole        int
	PlacedAt    float64
	AssignedAt  float64
	DeliveredAt float64
	Batched     bool
	Delivered   bool
	Undelivered bool
}

// WaitTimeMin is the time from placement to assignment, or -1 if the order
// was never assigned.
func (s OrderSample) WaitTimeMin() float64 {
	if s.AssignedAt == 0 {
		return -1
	}
	return s.AssignedAt - s.PlacedAt
}

// DeliveryTimeMin is the time from placement to delivery, or -1 if the
// order was never delivered.
func (s OrderSample) DeliveryTimeMin() float64 {
	if !s.Delivered {
		return -1
	}
	return s.DeliveredAt - s.PlacedAt
}

// AssetSample is the accumulated utilization record for one fleet asset,
// mirroring simulation_summary.py's AssetMetrics.
type AssetSample struct {
	AssetID       string
	AssetType     string // "beverage_cart" | "delivery_staff"
	ActiveMinutes float64
	IdleMinutes   float64
	Deliveries    int
}

// UtilizationPct is the share of tracked time the asset spent active.
func (s AssetSample) UtilizationPct() float64 {
	total := s.ActiveMinutes + s.IdleMinutes
	if total <= 0 {
		return 0
	}
	return 100 * s.ActiveMinutes / total
}

// Summary accumulates every order and asset sample for one simulation run.
// All methods are safe for concurrent use, though in practice only the
// simulation engine's single event-handler goroutine writes to it.
type Summary struct {
	mu     sync.Mutex
	orders map[string]*OrderSample
	assets map[string]*AssetSample

	orderSeq []string
	assetSeq []string

	durationMin       float64
	targetDeliveryMin float64
	targetWaitMin     float64
}

// NewSummary returns an empty summary against the scenario's configured
// on-time targets (spec §6, target_delivery_time_min / target_wait_time_min).
func NewSummary(targetDeliveryMin, targetWaitMin float64) *Summary {
	return &Summary{
		orders:            map[string]*OrderSample{},
		assets:            map[string]*AssetSample{},
		targetDeliveryMin: targetDeliveryMin,
		targetWaitMin:     targetWaitMin,
	}
}

// RegisterAsset adds a zero-valued sample for a fleet asset, so utilization
// KPIs account for assets that never receive an order.
func (s *Summary) RegisterAsset(id, assetType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; ok {
		return
	}
	s.assets[id] = &AssetSample{AssetID: id, AssetType: assetType}
	s.assetSeq = append(s.assetSeq, id)
}

// RecordOrderPlaced starts tracking a newly generated order.
func (s *Summary) RecordOrderPlaced(id string, hole int, at float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; ok {
		return
	}
	s.orders[id] = &OrderSample{OrderID: id, Hole: hole, PlacedAt: at}
	s.orderSeq = append(s.orderSeq, id)
}

// RecordOrderAssigned stamps the order's commitment time.
func (s *Summary) RecordOrderAssigned(id string, at float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return
	}
	o.AssignedAt = at
}

// RecordOrderDelivered stamps the order's completion time and whether it
// was delivered alongside batch siblings.
func (s *Summary) RecordOrderDelivered(id string, at float64, batched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return
	}
	o.DeliveredAt = at
	o.Delivered = true
	o.Batched = batched
}

// RecordOrderUndelivered marks an order that never reached delivery —
// either the decline cascade exhausted its retry budget (§4.6) or the
// simulation ended while it was still outstanding (§4.7).
func (s *Summary) RecordOrderUndelivered(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return
	}
	o.Undelivered = true
}

// RecordAssetTick credits elapsedMin of active or idle time to an asset,
// called once per location tick (spec §4.7) plus a final partial interval
// at simulation end.
func (s *Summary) RecordAssetTick(id string, active bool, elapsedMin float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return
	}
	if active {
		a.ActiveMinutes += elapsedMin
	} else {
		a.IdleMinutes += elapsedMin
	}
}

// RecordDelivery increments an asset's completed-delivery counter.
func (s *Summary) RecordDelivery(assetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[assetID]
	if !ok {
		return
	}
	a.Deliveries++
}

// Finalize records the scenario's total duration, used by OrdersPerHour.
func (s *Summary) Finalize(durationMin float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durationMin = durationMin
}

// Orders returns a stable-ordered copy of every tracked order sample.
func (s *Summary) Orders() []OrderSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OrderSample, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		out = append(out, *s.orders[id])
	}
	return out
}

// Assets returns a stable-ordered copy of every tracked asset sample.
func (s *Summary) Assets() []AssetSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AssetSample, 0, len(s.assetSeq))
	for _, id := range s.assetSeq {
		out = append(out, *s.assets[id])
	}
	return out
}

// Report is the reduced KPI set spec §4.8 requires.
type Report struct {
	TotalOrders           int
	DeliveredOrders       int
	UndeliveredOrders     int
	BatchedOrders         int
	AvgDeliveryTimeMin    float64
	MedianDeliveryTimeMin float64
	MinDeliveryTimeMin    float64
	MaxDeliveryTimeMin    float64
	DeliveryTimeStdDevMin float64
	AvgWaitTimeMin        float64
	MedianWaitTimeMin     float64
	OrdersPerHour         float64
	BatchedPct            float64
	OnTimeDeliveryPct     float64
	OnTimeWaitPct         float64
	AvgUtilizationPct     float64
	UtilizationByType     map[string]float64
}

// KPIs reduces every accumulated sample into the spec §4.8 report. It may
// be called at any point during a run (for a live view) or after Finalize
// (for the final scenario report); OrdersPerHour is 0 before Finalize sets
// a nonzero duration.
func (s *Summary) KPIs() Report {
	s.mu.Lock()
	orders := make([]OrderSample, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		orders = append(orders, *s.orders[id])
	}
	assets := make([]AssetSample, 0, len(s.assetSeq))
	for _, id := range s.assetSeq {
		assets = append(assets, *s.assets[id])
	}
	duration := s.durationMin
	targetDelivery := s.targetDeliveryMin
	targetWait := s.targetWaitMin
	s.mu.Unlock()

	var delivery, wait []float64
	var batched, onTimeDelivery, onTimeWait, delivered, undelivered int
	for _, o := range orders {
		if o.Undelivered {
			undelivered++
			continue
		}
		if !o.Delivered {
			continue
		}
		delivered++
		dt := o.DeliveryTimeMin()
		delivery = append(delivery, dt)
		if targetDelivery <= 0 || dt <= targetDelivery {
			onTimeDelivery++
		}
		if o.Batched {
			batched++
		}
		if wt := o.WaitTimeMin(); wt >= 0 {
			wait = append(wait, wt)
			if targetWait <= 0 || wt <= targetWait {
				onTimeWait++
			}
		}
	}

	rep := Report{
		TotalOrders:       len(orders),
		DeliveredOrders:   delivered,
		UndeliveredOrders: undelivered,
		BatchedOrders:     batched,
		UtilizationByType: map[string]float64{},
	}
	if delivered > 0 {
		rep.AvgDeliveryTimeMin = stat.Mean(delivery, nil)
		rep.MedianDeliveryTimeMin = median(delivery)
		rep.MinDeliveryTimeMin, rep.MaxDeliveryTimeMin = minMax(delivery)
		if delivered > 1 {
			rep.DeliveryTimeStdDevMin = stat.StdDev(delivery, nil)
		}
		rep.BatchedPct = 100 * float64(batched) / float64(delivered)
		rep.OnTimeDeliveryPct = 100 * float64(onTimeDelivery) / float64(delivered)
	}
	if len(wait) > 0 {
		rep.AvgWaitTimeMin = stat.Mean(wait, nil)
		rep.MedianWaitTimeMin = median(wait)
		rep.OnTimeWaitPct = 100 * float64(onTimeWait) / float64(len(wait))
	}
	if duration > 0 {
		rep.OrdersPerHour = float64(delivered) / (duration / 60.0)
	}

	byType := map[string][]float64{}
	var utilSum float64
	for _, a := range assets {
		u := a.UtilizationPct()
		utilSum += u
		byType[a.AssetType] = append(byType[a.AssetType], u)
	}
	if len(assets) > 0 {
		rep.AvgUtilizationPct = utilSum / float64(len(assets))
	}
	for kind, vals := range byType {
		rep.UtilizationByType[kind] = stat.Mean(vals, nil)
	}
	return rep
}

func median(xs []float64) float64 {
	sorted := append([]float64{}, xs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
