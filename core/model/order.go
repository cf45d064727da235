package model

import (
	"fmt"
	"time"
)

// Complexity rates how long an item takes to prepare.
type Complexity int

const (
	Simple Complexity = iota
	Medium
	Complex
)

// Factor returns the prep-time complexity multiplier.
func (c Complexity) Factor() float64 {
	switch c {
	case Simple:
		return 0.8
	case Complex:
		return 1.5
	default:
		return 1.0
	}
}

// Item is one line of an order.
type Item struct {
	Name       string
	Quantity   int
	Complexity Complexity
	UnitPrice  float64
}

// OrderState is the lifecycle state of an order. Transitions are monotone
// along Pending < Offered < Assigned < InDelivery < Delivered, except a
// full decline cascade which returns Offered to Pending (bounded by the
// retry cap), and the terminal Unassignable state reached after exhaustion.
type OrderState int

const (
	Pending OrderState = iota
	Offered
	Assigned
	InDelivery
	Delivered
	Unassignable
)

func (s OrderState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Offered:
		return "offered"
	case Assigned:
		return "assigned"
	case InDelivery:
		return "in_delivery"
	case Delivered:
		return "delivered"
	case Unassignable:
		return "unassignable"
	default:
		return "unknown"
	}
}

// Order is a single food/beverage request bound for a target hole.
type Order struct {
	ID         string
	TargetHole int
	Items      []Item
	TimeBucket TimeBucket

	State       OrderState
	RetryCount  int
	AssetID     string   // asset currently holding or having held the assignment
	BatchOrders []string // sibling order IDs, when delivered as part of a batch

	PlacedAt    time.Time
	OfferedAt   []time.Time
	AssignedAt  time.Time
	PickedUpAt  time.Time
	DeliveredAt time.Time
}

// simEpoch is the fixed reference instant simulated minutes are measured
// from, so Order timestamps stay ordinary time.Time values comparable with
// time.Before/Sub even though the simulation clock is really a scalar.
var simEpoch = time.Unix(0, 0).UTC()

// SimTime converts a simulated-minutes scalar to a time.Time anchored at
// the simulation epoch.
func SimTime(minutes float64) time.Time {
	return simEpoch.Add(time.Duration(minutes * float64(time.Minute)))
}

// TotalValue sums quantity*unit price across all items.
func (o Order) TotalValue() float64 {
	var total float64
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

// TotalQuantity sums the quantity across all items.
func (o Order) TotalQuantity() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// MaxComplexity returns the highest complexity factor among the order's
// items, or Simple's factor if the order has no items.
func (o Order) MaxComplexity() Complexity {
	max := Simple
	for _, it := range o.Items {
		if it.Complexity > max {
			max = it.Complexity
		}
	}
	return max
}

// Batched reports whether the order was delivered alongside siblings.
func (o Order) Batched() bool {
	return len(o.BatchOrders) > 0
}

// Validate checks the order's static invariants independent of lifecycle
// state: a well-formed item list and a legal target hole.
func (o Order) Validate() error {
	if o.TargetHole < 1 || o.TargetHole > 18 {
		return ErrUnknownHole{Hole: o.TargetHole}
	}
	for _, it := range o.Items {
		if it.Quantity < 0 {
			return fmt.Errorf("order %s: negative quantity for item %q", o.ID, it.Name)
		}
	}
	return nil
}
