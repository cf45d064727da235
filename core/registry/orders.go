package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fairwaydispatch/caddie/core/model"
)

// OrderBook is the single-writer store of orders and their lifecycle state.
type OrderBook struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

// NewOrderBook constructs an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{orders: make(map[string]*model.Order)}
}

// PlaceOrder records a new order in the Pending state at simulated time
// placedAt.
func (b *OrderBook) PlaceOrder(o model.Order, placedAt float64) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.State = model.Pending
	o.PlacedAt = model.SimTime(placedAt)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.orders[o.ID]; exists {
		return fmt.Errorf("order book: duplicate order id %s", o.ID)
	}
	b.orders[o.ID] = &o
	return nil
}

// Get returns a copy of the order by ID.
func (b *OrderBook) Get(id string) (model.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// SetState transitions the order's lifecycle state. The caller
// (Offer Protocol / Simulation Engine) is responsible for only requesting
// legal transitions; this method stamps the matching timestamp but does
// not itself validate monotonicity, since the decline-cascade path
// legitimately moves Offered back to Pending.
func (b *OrderBook) SetState(id string, state model.OrderState, at float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.State = state
	return nil
}

// AttachAssignment records the asset (and, for batches, sibling order IDs)
// an order has been committed to, and marks it Assigned.
func (b *OrderBook) AttachAssignment(id, assetID string, batchMembers []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.AssetID = assetID
	o.BatchOrders = batchMembers
	o.State = model.Assigned
	return nil
}

// RecordOffered appends an offer timestamp and moves the order to Offered.
func (b *OrderBook) RecordOffered(id string, at float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.State = model.Offered
	o.OfferedAt = append(o.OfferedAt, model.SimTime(at))
	return nil
}

// IncrementRetry bumps the retry counter on a decline-cascade exhaustion
// and returns the new count.
func (b *OrderBook) IncrementRetry(id string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return 0, fmt.Errorf("order book: unknown order %s", id)
	}
	o.RetryCount++
	return o.RetryCount, nil
}

// StampPickedUp / StampAssignedAt / StampDelivered record lifecycle
// timestamps, expressed in simulated minutes converted via
// model.SimTime so Order stays unit-agnostic about the simulation clock's
// epoch.
func (b *OrderBook) StampPickedUp(id string, at float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.PickedUpAt = model.SimTime(at)
	return nil
}

// StampAssignedAt records when an order was committed to an asset.
func (b *OrderBook) StampAssignedAt(id string, at float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.AssignedAt = model.SimTime(at)
	return nil
}

// StampDelivered marks an order Delivered at the given simulated time.
func (b *OrderBook) StampDelivered(id string, at float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order book: unknown order %s", id)
	}
	o.DeliveredAt = model.SimTime(at)
	o.State = model.Delivered
	return nil
}

// Pending returns every order currently in the Pending state, sorted by ID
// for deterministic iteration.
func (b *OrderBook) Pending() []model.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Order, 0)
	for _, o := range b.orders {
		if o.State == model.Pending {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Snapshot returns a copy of every order, sorted by ID.
func (b *OrderBook) Snapshot() []model.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
