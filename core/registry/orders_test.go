package registry

import (
	"testing"

	"github.com/fairwaydispatch/caddie/core/model"
)

func TestOrderBook_PlaceOrder_RejectsInvalidAndDuplicate(t *testing.T) {
	b := NewOrderBook()
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 99}, 0); err == nil {
		t.Fatalf("expected validation error for out-of-range hole")
	}
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 6}, 1); err == nil {
		t.Fatalf("expected error for duplicate order id")
	}
}

func TestOrderBook_PlaceOrder_StartsPending(t *testing.T) {
	b := NewOrderBook()
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 3); err != nil {
		t.Fatalf("place: %v", err)
	}
	o, ok := b.Get("o1")
	if !ok || o.State != model.Pending {
		t.Fatalf("expected order o1 pending, got %+v ok=%v", o, ok)
	}
}

func TestOrderBook_Lifecycle(t *testing.T) {
	b := NewOrderBook()
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 0); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := b.RecordOffered("o1", 1); err != nil {
		t.Fatalf("offer: %v", err)
	}
	o, _ := b.Get("o1")
	if o.State != model.Offered || len(o.OfferedAt) != 1 {
		t.Fatalf("expected offered state with one timestamp, got %+v", o)
	}

	if err := b.AttachAssignment("o1", "cart1", nil); err != nil {
		t.Fatalf("assign: %v", err)
	}
	o, _ = b.Get("o1")
	if o.State != model.Assigned || o.AssetID != "cart1" {
		t.Fatalf("expected assigned to cart1, got %+v", o)
	}

	if err := b.StampPickedUp("o1", 5); err != nil {
		t.Fatalf("stamp picked up: %v", err)
	}
	if err := b.StampDelivered("o1", 10); err != nil {
		t.Fatalf("stamp delivered: %v", err)
	}
	o, _ = b.Get("o1")
	if o.State != model.Delivered {
		t.Fatalf("expected delivered state, got %+v", o)
	}
}

func TestOrderBook_IncrementRetry(t *testing.T) {
	b := NewOrderBook()
	if err := b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 0); err != nil {
		t.Fatalf("place: %v", err)
	}
	for want := 1; want <= 3; want++ {
		got, err := b.IncrementRetry("o1")
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if got != want {
			t.Fatalf("expected retry count %d, got %d", want, got)
		}
	}
}

func TestOrderBook_Pending_OnlyReturnsPendingSorted(t *testing.T) {
	b := NewOrderBook()
	_ = b.PlaceOrder(model.Order{ID: "o2", TargetHole: 5}, 0)
	_ = b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 0)
	_ = b.AttachAssignment("o2", "cart1", nil)

	pending := b.Pending()
	if len(pending) != 1 || pending[0].ID != "o1" {
		t.Fatalf("expected only o1 pending, got %+v", pending)
	}
}

func TestOrderBook_Snapshot_SortedByID(t *testing.T) {
	b := NewOrderBook()
	_ = b.PlaceOrder(model.Order{ID: "o2", TargetHole: 5}, 0)
	_ = b.PlaceOrder(model.Order{ID: "o1", TargetHole: 5}, 0)
	snap := b.Snapshot()
	if len(snap) != 2 || snap[0].ID != "o1" || snap[1].ID != "o2" {
		t.Fatalf("expected sorted snapshot, got %+v", snap)
	}
}

func TestOrderBook_UnknownOrderErrors(t *testing.T) {
	b := NewOrderBook()
	if err := b.SetState("nope", model.Pending, 0); err == nil {
		t.Fatalf("expected error for unknown order in SetState")
	}
	if err := b.AttachAssignment("nope", "cart1", nil); err == nil {
		t.Fatalf("expected error for unknown order in AttachAssignment")
	}
	if err := b.RecordOffered("nope", 0); err == nil {
		t.Fatalf("expected error for unknown order in RecordOffered")
	}
	if _, err := b.IncrementRetry("nope"); err == nil {
		t.Fatalf("expected error for unknown order in IncrementRetry")
	}
	if err := b.StampPickedUp("nope", 0); err == nil {
		t.Fatalf("expected error for unknown order in StampPickedUp")
	}
	if err := b.StampAssignedAt("nope", 0); err == nil {
		t.Fatalf("expected error for unknown order in StampAssignedAt")
	}
	if err := b.StampDelivered("nope", 0); err == nil {
		t.Fatalf("expected error for unknown order in StampDelivered")
	}
}
