package dispatch

import (
	"math/rand"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/prediction"
	"github.com/fairwaydispatch/caddie/core/registry"
)

// OfferOutcome is the resolution of one Offering(c_i) state (spec §4.6).
type OfferOutcome int

const (
	OfferAccepted OfferOutcome = iota
	OfferDeclined
	OfferExpired
)

// OfferProtocol drives the per-order offer/accept/decline state machine
// against the live registry and order book. The simulation engine owns
// the single writer goroutine; OfferProtocol's methods assume they are
// called from within it, the same contract the Asset Registry and Order
// Book document for their own writers.
type OfferProtocol struct {
	Assets   *registry.AssetRegistry
	Orders   *registry.OrderBook
	Oracle   prediction.Oracle
	Tunables model.Tunables
}

// BeginOffering arms the next candidate in ranked that is still available,
// skipping any that already hold an outstanding offer or have gone
// offline since ranking. It returns the OfferTimeout event to schedule
// and the asset ID now holding the offer, or ok=false if no candidate in
// ranked could be armed.
func (p *OfferProtocol) BeginOffering(order model.Order, ranked []string, at float64, seq uint64) (model.Event, string, bool) {
	for _, assetID := range ranked {
		if err := p.Assets.SetStatus(assetID, model.OfferPending); err != nil {
			continue
		}
		_ = p.Orders.RecordOffered(order.ID, at)
		ev := model.Event{
			AtTime:       at + p.Tunables.OfferWindowSec/60.0,
			Kind:         model.OfferTimeout,
			InsertionSeq: seq,
			OrderID:      order.ID,
			AssetID:      assetID,
		}
		return ev, assetID, true
	}
	return model.Event{}, "", false
}

// Resolve samples acceptance for the asset currently holding order's offer
// and applies the resulting state transition. expired is true when called
// from an OfferTimeout handler rather than an immediate acceptance check.
func (p *OfferProtocol) Resolve(order model.Order, assetID string, info prediction.CandidateInfo, expired bool, rng *rand.Rand, at float64) (OfferOutcome, error) {
	if expired {
		if err := p.Assets.SetStatus(assetID, model.Available); err != nil {
			return OfferExpired, err
		}
		return OfferExpired, nil
	}

	prob := p.Oracle.AcceptanceProbability(info, rng)
	if rng.Float64() < prob {
		if err := p.Assets.SetStatus(assetID, model.EnRouteToPickup); err != nil {
			return OfferDeclined, err
		}
		if err := p.Assets.EnqueueOrder(assetID, order.ID); err != nil {
			return OfferDeclined, err
		}
		if err := p.Orders.AttachAssignment(order.ID, assetID, order.BatchOrders); err != nil {
			return OfferDeclined, err
		}
		if err := p.Orders.StampAssignedAt(order.ID, at); err != nil {
			return OfferDeclined, err
		}
		return OfferAccepted, nil
	}

	if err := p.Assets.SetStatus(assetID, model.Available); err != nil {
		return OfferDeclined, err
	}
	return OfferDeclined, nil
}

// ReleaseOthers resets every other candidate in ranked that still holds an
// OfferPending status for this order back to Available, once one of them
// has accepted (spec §4.6, "reset every other c_j").
func (p *OfferProtocol) ReleaseOthers(ranked []string, accepted string) {
	for _, assetID := range ranked {
		if assetID == accepted {
			continue
		}
		a, ok := p.Assets.Get(assetID)
		if !ok || a.Status() != model.OfferPending {
			continue
		}
		_ = p.Assets.SetStatus(assetID, model.Available)
	}
}

// Exhausted handles list exhaustion: bumps the retry count and reports
// whether the order should be re-queued to Pending after RETRY_BACKOFF, or
// transitioned to the terminal Unassignable state.
func (p *OfferProtocol) Exhausted(orderID string, at float64) (requeueAt float64, unassignable bool, err error) {
	count, err := p.Orders.IncrementRetry(orderID)
	if err != nil {
		return 0, false, err
	}
	if count > p.Tunables.MaxRetries {
		if err := p.Orders.SetState(orderID, model.Unassignable, at); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	}
	if err := p.Orders.SetState(orderID, model.Pending, at); err != nil {
		return 0, false, err
	}
	return at + p.Tunables.RetryBackoffSec/60.0, false, nil
}
