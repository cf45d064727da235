package registry

import (
	"testing"

	"github.com/fairwaydispatch/caddie/core/model"
)

func TestAssetRegistry_RegisterAndGet(t *testing.T) {
	r := NewAssetRegistry()
	cart := model.NewBeverageCart("cart1", "Cart 1", model.Front, model.AtHole(1))
	r.Register(cart)
	got, ok := r.Get("cart1")
	if !ok || got.ID() != "cart1" {
		t.Fatalf("expected to find cart1, got %v ok=%v", got, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("expected missing asset to not be found")
	}
}

func TestAssetRegistry_UpdateLocation_UnknownAsset(t *testing.T) {
	r := NewAssetRegistry()
	if err := r.UpdateLocation("nope", model.AtHole(1)); err == nil {
		t.Fatalf("expected error for unknown asset")
	}
}

func TestAssetRegistry_SetStatus_RejectsDoubleOffer(t *testing.T) {
	r := NewAssetRegistry()
	staff := model.NewDeliveryStaff("staff1", "Staff 1", model.AtClubhouse())
	r.Register(staff)
	if err := r.SetStatus("staff1", model.OfferPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.SetStatus("staff1", model.OfferPending); err == nil {
		t.Fatalf("expected error setting OfferPending on an already-pending asset")
	}
	if err := r.SetStatus("staff1", model.Available); err != nil {
		t.Fatalf("unexpected error clearing offer: %v", err)
	}
	if err := r.SetStatus("staff1", model.OfferPending); err != nil {
		t.Fatalf("expected re-offer to succeed after clearing: %v", err)
	}
}

func TestAssetRegistry_EnqueueDequeueOrder(t *testing.T) {
	r := NewAssetRegistry()
	cart := model.NewBeverageCart("cart1", "Cart 1", model.Front, model.AtHole(1))
	r.Register(cart)
	if err := r.EnqueueOrder("cart1", "o1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := r.DequeueOrder("cart1", "o1"); err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if len(cart.Queue()) != 0 {
		t.Fatalf("expected empty queue, got %v", cart.Queue())
	}
}

func TestAssetRegistry_Snapshot_SortedAndMarksCarts(t *testing.T) {
	r := NewAssetRegistry()
	r.Register(model.NewBeverageCart("cart1", "Cart 1", model.Back, model.AtHole(10)))
	r.Register(model.NewDeliveryStaff("staff1", "Staff 1", model.AtClubhouse()))
	views := r.Snapshot()
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].ID != "cart1" || views[1].ID != "staff1" {
		t.Fatalf("expected sorted IDs, got %v then %v", views[0].ID, views[1].ID)
	}
	if !views[0].IsCart || views[0].Loop != model.Back {
		t.Fatalf("expected cart1 view marked as a back-loop cart: %+v", views[0])
	}
	if views[1].IsCart {
		t.Fatalf("expected staff1 view not marked as a cart")
	}
}

func TestAssetView_Serviceable(t *testing.T) {
	cartView := AssetView{IsCart: true, Loop: model.Front}
	if !cartView.Serviceable(5) || cartView.Serviceable(14) {
		t.Fatalf("cart view serviceable mismatch: %+v", cartView)
	}
	staffView := AssetView{IsCart: false}
	if !staffView.Serviceable(18) {
		t.Fatalf("staff view should serve any hole")
	}
}
