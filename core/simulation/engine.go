package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/dispatch"
	"github.com/fairwaydispatch/caddie/core/dispatch/logging"
	corelogger "github.com/fairwaydispatch/caddie/core/logger"
	"github.com/fairwaydispatch/caddie/core/metrics"
	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/prediction"
	"github.com/fairwaydispatch/caddie/core/registry"
	"github.com/fairwaydispatch/caddie/internal/eventbus"
	inflogger "github.com/fairwaydispatch/caddie/infra/logger"
)

// Params is the subset of a scenario's configuration the scheduler itself
// needs. Fleet composition (how many carts/staff, their starting zones)
// is the config package's concern: it builds the []model.Asset slice
// NewEngine takes, so the engine stays ignorant of how a scenario chose
// its fleet size.
type Params struct {
	DurationMin              float64
	OrderIntervalMin         float64
	OrderIntervalVarianceMin float64
	VolumeMultiplier         float64
	TargetDeliveryMin        float64
	TargetWaitMin            float64
	Seed                     int64
	DetailedLogging          bool
	LocationTickMin          float64
}

type cascadeState struct {
	remaining []string
	batches   map[string][]model.Order
}

// legState is one scheduled hop of a committed route, used by location
// ticks to interpolate an asset's position between its discrete
// AssetArrived waypoints.
type legState struct {
	fromHole, toHole int
	fromT, toT       float64
	hops             float64
}

// Engine is the discrete-event scheduler of spec §4.7: a monotonic
// simulated-time clock driving order arrivals, the offer/accept/decline
// cascade, batch-route scheduling, location ticks, and termination.
type Engine struct {
	Course   *model.CourseMap
	Strategy dispatch.Strategy
	Oracle   prediction.Oracle
	Catalog  []model.Item
	Store    logging.Store  // nil disables event-log persistence
	Bus      *eventbus.Bus  // nil disables live event publication

	assets  *registry.AssetRegistry
	orders  *registry.OrderBook
	offer   *dispatch.OfferProtocol
	summary *metrics.Summary
	log     corelogger.Logger

	tunables model.Tunables
	params   Params
	bucket   model.TimeBucket

	queue    eventQueue
	seq      uint64
	clock    float64
	orderSeq int

	cascades map[string]*cascadeState
	legs     map[string][]legState
	lastTick float64
	ended    bool
}

// NewEngine wires a fresh scheduler around an already-built fleet. assets
// are registered into a new AssetRegistry the engine owns for the run's
// lifetime; callers must not share one Engine's registry with another.
func NewEngine(course *model.CourseMap, assets []model.Asset, catalog []model.Item, strategy dispatch.Strategy, oracle prediction.Oracle, tunables model.Tunables, params Params, store logging.Store, bus *eventbus.Bus) *Engine {
	reg := registry.NewAssetRegistry()
	for _, a := range assets {
		reg.Register(a)
	}
	orders := registry.NewOrderBook()
	summary := metrics.NewSummary(params.TargetDeliveryMin, params.TargetWaitMin)
	for _, a := range assets {
		summary.RegisterAsset(a.ID(), assetTypeName(a))
	}
	return &Engine{
		Course:   course,
		Strategy: strategy,
		Oracle:   oracle,
		Catalog:  catalog,
		Store:    store,
		Bus:      bus,
		assets:   reg,
		orders:   orders,
		offer:    &dispatch.OfferProtocol{Assets: reg, Orders: orders, Oracle: oracle, Tunables: tunables},
		summary:  summary,
		log:      inflogger.New("simulation"),
		tunables: tunables,
		params:   params,
		bucket:   model.Noon, // spec §6 carries no start-of-day field; see DESIGN.md
		cascades: map[string]*cascadeState{},
		legs:     map[string][]legState{},
	}
}

// Assets and Orders expose the engine's stores for post-run inspection
// (the CLI's scenario report, or a test asserting final state).
func (e *Engine) Assets() *registry.AssetRegistry { return e.assets }
func (e *Engine) Orders() *registry.OrderBook     { return e.orders }
func (e *Engine) Clock() float64                  { return e.clock }

// Run drives the event loop to completion and returns the finalized KPI
// summary. It is not safe to call Run twice on the same Engine.
func (e *Engine) Run(ctx context.Context) (*metrics.Summary, error) {
	rng := rand.New(rand.NewSource(e.params.Seed))

	if e.params.LocationTickMin <= 0 {
		e.params.LocationTickMin = 0.5
	}
	e.scheduleArrivals(rng)
	e.schedule(model.Event{AtTime: e.params.LocationTickMin, Kind: model.LocationTick})
	e.schedule(model.Event{AtTime: e.params.DurationMin, Kind: model.SimulationEnd})

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		ev, ok := e.pop()
		if !ok {
			break
		}
		if e.ended && ev.Kind != model.DeliveryComplete {
			continue
		}
		e.clock = ev.AtTime

		var err error
		switch ev.Kind {
		case model.OrderArrival:
			err = e.handleArrival(&ev, rng)
		case model.OfferTimeout:
			err = e.handleOfferTimeout(&ev, rng)
		case model.AssetArrived:
			err = e.handleAssetArrived(&ev)
		case model.DeliveryComplete:
			err = e.handleDeliveryComplete(&ev, rng)
		case model.LocationTick:
			err = e.handleLocationTick(&ev)
		case model.SimulationEnd:
			e.ended = true
			e.handleSimulationEnd()
		}
		if err != nil {
			return nil, fmt.Errorf("simulation: event %s at t=%.3f: %w", ev.Kind, ev.AtTime, err)
		}
		e.logEvent(ctx, ev)
	}

	e.summary.Finalize(e.params.DurationMin)
	return e.summary, nil
}

func (e *Engine) logEvent(ctx context.Context, ev model.Event) {
	if e.Bus != nil {
		e.Bus.Publish(ev)
	}
	if e.Store == nil {
		return
	}
	if !e.params.DetailedLogging && ev.Kind == model.LocationTick {
		return
	}
	rec := logging.Record{
		Timestamp: model.SimTime(ev.AtTime),
		SimTime:   ev.AtTime,
		Kind:      ev.Kind,
		OrderID:   ev.OrderID,
		AssetID:   ev.AssetID,
		Detail:    ev.Detail,
	}
	if err := e.Store.Append(ctx, rec); err != nil && e.log != nil {
		e.log.Warnf("event log append failed: %v", err)
	}
}

// handleArrival either creates a brand-new order (ev.OrderID == "", the
// common case for a generated arrival) or re-attempts dispatch for an
// order that was re-queued after a decline-cascade exhaustion — the retry
// event reuses OrderArrival rather than inventing a seventh EventKind
// beyond spec §4.7's six, tagged with the order's existing ID.
func (e *Engine) handleArrival(ev *model.Event, rng *rand.Rand) error {
	if ev.OrderID != "" {
		order, ok := e.orders.Get(ev.OrderID)
		if !ok || order.State != model.Pending {
			return nil
		}
		return e.tryDispatch(order, rng)
	}

	hole, _ := ev.Payload.(int)
	e.orderSeq++
	order := model.Order{
		ID:         fmt.Sprintf("ORD%04d", e.orderSeq),
		TargetHole: hole,
		Items:      e.drawItems(rng),
		TimeBucket: e.bucket,
	}
	if err := e.orders.PlaceOrder(order, ev.AtTime); err != nil {
		return err
	}
	ev.OrderID = order.ID
	e.summary.RecordOrderPlaced(order.ID, hole, ev.AtTime)
	// The first dispatch attempt is deferred, not immediate: near-
	// simultaneous orders to nearby holes need a short window to both
	// land in the Order Book as Pending before the batching planner can
	// consider them together (spec §4.5). Reuses this same event kind
	// and branch, so the deferred attempt and a decline-cascade retry
	// are handled identically.
	e.schedule(model.Event{AtTime: ev.AtTime + batchCollectionWindowMin, Kind: model.OrderArrival, OrderID: order.ID, Detail: "dispatch"})
	return nil
}

// batchCollectionWindowMin is how long a freshly placed order waits before
// its first dispatch attempt. Spec §6 names no dedicated knob for this, so
// it borrows the location-tick cadence's order of magnitude; see DESIGN.md.
const batchCollectionWindowMin = 0.5

func (e *Engine) tryDispatch(order model.Order, rng *rand.Rand) error {
	snap := e.snapshot()
	ranked, batches, err := e.rankCandidates(order, snap, rng)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		return nil
	}
	e.cascades[order.ID] = &cascadeState{remaining: ranked, batches: batches}
	return e.armNextCandidate(order.ID)
}

func (e *Engine) snapshot() dispatch.Snapshot {
	return dispatch.Snapshot{
		Course:   e.Course,
		Assets:   e.assets.Snapshot(),
		Pending:  e.orders.Pending(),
		Bucket:   e.bucket,
		Tunables: e.tunables,
	}
}

// rankCandidates builds a full ranked candidate list for order by calling
// the configured Strategy repeatedly, excluding each chosen asset from the
// pool before asking again — the Strategy interface only reports its one
// best pick per call, so this is how the engine synthesizes the ranked
// cascade spec §4.6 assumes exists, without requiring every strategy to
// implement a ranking method of its own. See DESIGN.md.
func (e *Engine) rankCandidates(order model.Order, snap dispatch.Snapshot, rng *rand.Rand) ([]string, map[string][]model.Order, error) {
	excluded := map[string]bool{}
	var ranked []string
	batches := map[string][]model.Order{}
	for len(ranked) < len(snap.Assets) {
		trial := snap
		trial.Assets = excludeAssets(snap.Assets, excluded)
		if len(trial.Assets) == 0 {
			break
		}
		dec, err := e.Strategy.Choose(order, trial, e.Oracle, rng)
		if err != nil {
			return nil, nil, err
		}
		if dec.Kind != dispatch.Assign {
			break
		}
		batch := []model.Order{order}
		for _, sid := range dec.BatchWith {
			if o, ok := findOrder(snap.Pending, sid); ok {
				batch = append(batch, o)
			}
		}
		ranked = append(ranked, dec.AssetID)
		batches[dec.AssetID] = batch
		excluded[dec.AssetID] = true
	}
	return ranked, batches, nil
}

func (e *Engine) armNextCandidate(orderID string) error {
	cs, ok := e.cascades[orderID]
	if !ok {
		return nil
	}
	order, ok := e.orders.Get(orderID)
	if !ok {
		delete(e.cascades, orderID)
		return nil
	}
	if len(cs.remaining) == 0 {
		return e.exhaustCascade(orderID)
	}
	ev, assetID, armed := e.offer.BeginOffering(order, cs.remaining, e.clock, 0)
	if !armed {
		return e.exhaustCascade(orderID)
	}
	cs.remaining = removeID(cs.remaining, assetID)
	e.schedule(ev)
	return nil
}

func (e *Engine) exhaustCascade(orderID string) error {
	delete(e.cascades, orderID)
	requeueAt, unassignable, err := e.offer.Exhausted(orderID, e.clock)
	if err != nil {
		return err
	}
	if unassignable {
		e.summary.RecordOrderUndelivered(orderID)
		return nil
	}
	e.schedule(model.Event{AtTime: requeueAt, Kind: model.OrderArrival, OrderID: orderID, Detail: "retry"})
	return nil
}

func (e *Engine) handleOfferTimeout(ev *model.Event, rng *rand.Rand) error {
	cs, ok := e.cascades[ev.OrderID]
	if !ok {
		return nil
	}
	order, ok := e.orders.Get(ev.OrderID)
	if !ok {
		delete(e.cascades, ev.OrderID)
		return nil
	}
	asset, ok := e.assets.Get(ev.AssetID)
	if !ok {
		return e.armNextCandidate(ev.OrderID)
	}

	batch := cs.batches[ev.AssetID]
	if len(batch) == 0 {
		batch = []model.Order{order}
	}
	ordered := dispatch.OrderByForwardPath(e.Course, assetViewOf(asset), batch, e.bucket)
	order.BatchOrders = siblingIDsExcluding(ordered, order.ID)

	info := candidateInfoFor(asset, order, e.Course)
	outcome, err := e.offer.Resolve(order, ev.AssetID, info, false, rng, ev.AtTime)
	if err != nil {
		return err
	}
	switch outcome {
	case dispatch.OfferAccepted:
		e.offer.ReleaseOthers(append(append([]string{}, cs.remaining...), ev.AssetID), ev.AssetID)
		delete(e.cascades, ev.OrderID)
		ev.Detail = "accepted"
		return e.commitRoute(order, ev.AssetID, ordered, ev.AtTime, rng)
	default:
		ev.Detail = "declined"
		return e.armNextCandidate(ev.OrderID)
	}
}

// commitRoute sequences a batch's drops along the asset's actual forward
// path and schedules one AssetArrived/DeliveryComplete pair per member.
// Resolve has already attached and enqueued the primary order; this only
// attaches the batch siblings and lays down every leg's timing.
func (e *Engine) commitRoute(order model.Order, assetID string, ordered []model.Order, now float64, rng *rand.Rand) error {
	for _, sibling := range ordered {
		if sibling.ID == order.ID {
			continue
		}
		if err := e.assets.EnqueueOrder(assetID, sibling.ID); err != nil {
			return err
		}
		if err := e.orders.AttachAssignment(sibling.ID, assetID, order.BatchOrders); err != nil {
			return err
		}
		if err := e.orders.StampAssignedAt(sibling.ID, now); err != nil {
			return err
		}
		e.summary.RecordOrderAssigned(sibling.ID, now)
	}
	e.summary.RecordOrderAssigned(order.ID, now)

	asset, ok := e.assets.Get(assetID)
	if !ok {
		return fmt.Errorf("simulation: commit: unknown asset %s", assetID)
	}
	prep := e.Oracle.PrepTime(order, rng)
	kind := asset.Kind()
	cur := asset.Location()
	t := now + prep
	legs := make([]legState, 0, len(ordered))
	for _, o := range ordered {
		eta, err := e.Course.ETA(cur, o.TargetHole, kind, e.bucket)
		if err != nil {
			return err
		}
		fromHole := startHoleOf(cur)
		toT := t + eta
		legs = append(legs, legState{fromHole: fromHole, toHole: o.TargetHole, fromT: t, toT: toT, hops: e.holeHops(fromHole, o.TargetHole)})
		e.schedule(model.Event{AtTime: toT, Kind: model.AssetArrived, OrderID: o.ID, AssetID: assetID, Payload: o.TargetHole, Detail: fmt.Sprintf("hole %d", o.TargetHole)})
		e.schedule(model.Event{AtTime: toT, Kind: model.DeliveryComplete, OrderID: o.ID, AssetID: assetID, Detail: fmt.Sprintf("hole %d", o.TargetHole)})
		t = toT
		cur = model.AtHole(o.TargetHole)
	}
	e.legs[assetID] = legs
	return nil
}

func (e *Engine) handleAssetArrived(ev *model.Event) error {
	hole, _ := ev.Payload.(int)
	if err := e.assets.UpdateLocation(ev.AssetID, model.AtHole(hole)); err != nil {
		return err
	}
	if legs := e.legs[ev.AssetID]; len(legs) > 0 {
		if asset, ok := e.assets.Get(ev.AssetID); ok {
			asset.Stats().DistanceHoles += legs[0].hops
		}
		e.legs[ev.AssetID] = legs[1:]
	}
	return nil
}

func (e *Engine) handleDeliveryComplete(ev *model.Event, rng *rand.Rand) error {
	order, ok := e.orders.Get(ev.OrderID)
	if !ok {
		return nil
	}
	if err := e.orders.StampDelivered(ev.OrderID, ev.AtTime); err != nil {
		return err
	}
	if err := e.assets.DequeueOrder(ev.AssetID, ev.OrderID); err != nil {
		return err
	}
	e.summary.RecordOrderDelivered(ev.OrderID, ev.AtTime, order.Batched())

	asset, ok := e.assets.Get(ev.AssetID)
	if !ok {
		return nil
	}
	asset.Stats().Deliveries++
	e.summary.RecordDelivery(ev.AssetID)
	if len(asset.Queue()) == 0 {
		if err := e.assets.SetStatus(ev.AssetID, model.Available); err != nil {
			return err
		}
		return e.retryPending(rng)
	}
	return nil
}

// retryPending re-attempts dispatch for every order still Pending whenever
// an asset frees up, since candidatePool's availability check is only
// evaluated at the moment tryDispatch runs — a zone-restricted or fully
// committed fleet (spec §8 scenario "zone reject") otherwise leaves a
// servable order stranded once its generating arrival event has passed.
func (e *Engine) retryPending(rng *rand.Rand) error {
	for _, o := range e.orders.Pending() {
		if _, active := e.cascades[o.ID]; active {
			continue
		}
		if err := e.tryDispatch(o, rng); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) handleLocationTick(ev *model.Event) error {
	elapsed := ev.AtTime - e.lastTick
	if elapsed < 0 {
		elapsed = 0
	}
	for assetID, legs := range e.legs {
		asset, ok := e.assets.Get(assetID)
		if !ok || len(legs) == 0 {
			continue
		}
		asset.Stats().ActiveMinutes += elapsed
		e.summary.RecordAssetTick(assetID, true, elapsed)
		leg := legs[0]
		if leg.toT <= leg.fromT {
			continue
		}
		frac := (ev.AtTime - leg.fromT) / (leg.toT - leg.fromT)
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		if seg, err := e.Course.Next(leg.fromHole); err == nil && seg.To == leg.toHole {
			asset.SetLocation(model.MidSegment(seg, frac))
		}
	}
	for _, a := range e.assets.Snapshot() {
		if legs := e.legs[a.ID]; len(legs) > 0 {
			continue
		}
		asset, ok := e.assets.Get(a.ID)
		if !ok {
			continue
		}
		asset.Stats().IdleMinutes += elapsed
		e.summary.RecordAssetTick(a.ID, false, elapsed)
	}
	e.lastTick = ev.AtTime
	if ev.AtTime+e.params.LocationTickMin <= e.params.DurationMin {
		e.schedule(model.Event{AtTime: ev.AtTime + e.params.LocationTickMin, Kind: model.LocationTick})
	}
	return nil
}

// handleSimulationEnd credits the final partial tick interval and records
// every order still outstanding (Pending or mid-offer) as undelivered.
// Orders already Assigned keep their scheduled DeliveryComplete event,
// which the run loop still drains per spec §4.7's termination rule.
func (e *Engine) handleSimulationEnd() {
	elapsed := e.params.DurationMin - e.lastTick
	if elapsed > 0 {
		for _, a := range e.assets.Snapshot() {
			asset, ok := e.assets.Get(a.ID)
			if !ok {
				continue
			}
			if legs := e.legs[a.ID]; len(legs) > 0 {
				asset.Stats().ActiveMinutes += elapsed
				e.summary.RecordAssetTick(a.ID, true, elapsed)
			} else {
				asset.Stats().IdleMinutes += elapsed
				e.summary.RecordAssetTick(a.ID, false, elapsed)
			}
		}
		e.lastTick = e.params.DurationMin
	}
	for _, o := range e.orders.Snapshot() {
		if o.State == model.Pending || o.State == model.Offered {
			e.summary.RecordOrderUndelivered(o.ID)
		}
	}
}

func (e *Engine) drawItems(rng *rand.Rand) []model.Item {
	if len(e.Catalog) == 0 {
		return []model.Item{{Name: "snack", Quantity: 1, UnitPrice: 5}}
	}
	n := 1 + rng.Intn(3)
	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		item := e.Catalog[rng.Intn(len(e.Catalog))]
		item.Quantity = 1 + rng.Intn(2)
		items = append(items, item)
	}
	return items
}

func (e *Engine) holeHops(from, to int) float64 {
	if model.LoopOf(from) == model.LoopOf(to) {
		if _, hops, err := e.Course.ForwardDistance(from, to); err == nil {
			return float64(hops)
		}
	}
	d := from - to
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func assetTypeName(a model.Asset) string {
	if a.Kind() == model.KindBeverageCart {
		return "beverage_cart"
	}
	return "delivery_staff"
}

func assetViewOf(a model.Asset) registry.AssetView {
	v := registry.AssetView{
		ID: a.ID(), Name: a.Name(), Kind: a.Kind(), Location: a.Location(),
		Status: a.Status(), Queue: a.Queue(), Stats: *a.Stats(),
	}
	if cart, ok := a.(*model.BeverageCart); ok {
		v.IsCart = true
		v.Loop = cart.Loop()
	}
	return v
}

func candidateInfoFor(asset model.Asset, order model.Order, course *model.CourseMap) prediction.CandidateInfo {
	distance, _ := course.DistanceToClubhouse(order.TargetHole)
	return prediction.CandidateInfo{
		AssetID:       asset.ID(),
		IsCart:        asset.Kind() == model.KindBeverageCart,
		InLoop:        asset.Serviceable(order.TargetHole),
		DistanceHoles: distance,
		ActiveOrders:  len(asset.Queue()),
		OrderValue:    order.TotalValue(),
	}
}

func startHoleOf(loc model.Location) int {
	if loc.Mid {
		return loc.Segment.From
	}
	return loc.Hole
}

func excludeAssets(assets []registry.AssetView, excluded map[string]bool) []registry.AssetView {
	out := make([]registry.AssetView, 0, len(assets))
	for _, a := range assets {
		if !excluded[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func findOrder(pending []model.Order, id string) (model.Order, bool) {
	for _, o := range pending {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

func siblingIDsExcluding(batch []model.Order, exclude string) []string {
	out := make([]string, 0, len(batch))
	for _, o := range batch {
		if o.ID != exclude {
			out = append(out, o.ID)
		}
	}
	return out
}

func removeID(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
