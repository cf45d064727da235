// Package logging persists the simulation's event log (spec §6): stable,
// line-oriented records of every scheduler event, queryable after the fact.
package logging

import (
	"context"
	"time"

	"github.com/fairwaydispatch/caddie/core/model"
)

// Record is one line of the event log output: (t, kind, order_id?,
// asset_id?, detail), with a stable field order and stable kind names.
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	SimTime   float64         `json:"sim_time"`
	Kind      model.EventKind `json:"kind"`
	OrderID   string          `json:"order_id,omitempty"`
	AssetID   string          `json:"asset_id,omitempty"`
	Detail    string          `json:"detail,omitempty"`
}

// Query filters records retrieved from a Store.
type Query struct {
	Start   time.Time
	End     time.Time
	OrderID string
	AssetID string
	Kind    *model.EventKind
}

// Store persists Records and supports querying. Implementations are the
// only place the specification's "persistent storage" Non-goal is
// deliberately not extended to: the event log is explicitly an output
// artifact (§6), not the durable order/asset state (§4.3 stores are
// in-memory only).
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func matches(r Record, q Query) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.OrderID != "" && r.OrderID != q.OrderID {
		return false
	}
	if q.AssetID != "" && r.AssetID != q.AssetID {
		return false
	}
	if q.Kind != nil && r.Kind != *q.Kind {
		return false
	}
	return true
}
