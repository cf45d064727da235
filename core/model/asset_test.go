package model

import "testing"

func TestBeverageCart_Serviceable_SameLoopOnly(t *testing.T) {
	cart := NewBeverageCart("cart1", "Cart 1", Front, AtHole(1))
	if !cart.Serviceable(5) {
		t.Errorf("expected hole 5 (front) serviceable by a front cart")
	}
	if cart.Serviceable(14) {
		t.Errorf("expected hole 14 (back) not serviceable by a front cart")
	}
}

func TestBeverageCart_SetLocation_RejectsOffLoop(t *testing.T) {
	cart := NewBeverageCart("cart1", "Cart 1", Front, AtHole(1))
	cart.SetLocation(AtHole(14))
	if cart.Location().Hole != 1 {
		t.Errorf("expected location unchanged after off-loop set, got hole %d", cart.Location().Hole)
	}
	cart.SetLocation(AtHole(5))
	if cart.Location().Hole != 5 {
		t.Errorf("expected on-loop location applied, got hole %d", cart.Location().Hole)
	}
}

func TestBeverageCart_SetLocation_RejectsClubhouse(t *testing.T) {
	cart := NewBeverageCart("cart1", "Cart 1", Front, AtHole(1))
	cart.SetLocation(AtClubhouse())
	if cart.Location().Clubhouse {
		t.Errorf("expected a cart to never accept a clubhouse location")
	}
}

func TestDeliveryStaff_Serviceable_AnyHole(t *testing.T) {
	staff := NewDeliveryStaff("staff1", "Staff 1", AtClubhouse())
	for _, h := range []int{1, 9, 10, 18} {
		if !staff.Serviceable(h) {
			t.Errorf("expected hole %d serviceable by staff", h)
		}
	}
}

func TestEnqueue_RespectsMaxBatchSize(t *testing.T) {
	cart := NewBeverageCart("cart1", "Cart 1", Front, AtHole(1))
	for i := 0; i < MaxBatchSize; i++ {
		if err := cart.Enqueue("order"); err != nil {
			t.Fatalf("unexpected error enqueuing order %d: %v", i, err)
		}
	}
	if err := cart.Enqueue("overflow"); err == nil {
		t.Fatalf("expected error enqueuing beyond MaxBatchSize")
	}
}

func TestDequeue_RemovesOnlyMatchingID(t *testing.T) {
	cart := NewBeverageCart("cart1", "Cart 1", Front, AtHole(1))
	_ = cart.Enqueue("o1")
	_ = cart.Enqueue("o2")
	cart.Dequeue("o1")
	q := cart.Queue()
	if len(q) != 1 || q[0] != "o2" {
		t.Fatalf("expected only o2 remaining, got %v", q)
	}
}

func TestAssetStatus_String(t *testing.T) {
	cases := map[AssetStatus]string{
		Available:         "available",
		OfferPending:      "offer_pending",
		EnRouteToPickup:   "en_route_to_pickup",
		AtStore:           "at_store",
		EnRouteToCustomer: "en_route_to_customer",
		Returning:         "returning",
		Offline:           "offline",
		AssetStatus(99):   "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("status %d: got %q, want %q", status, got, want)
		}
	}
}
