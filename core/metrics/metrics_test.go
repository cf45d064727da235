package metrics

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummary_KPIs_EmptyReportIsZeroValued(t *testing.T) {
	s := NewSummary(20, 10)
	rep := s.KPIs()
	if rep.TotalOrders != 0 || rep.DeliveredOrders != 0 || rep.UndeliveredOrders != 0 {
		t.Fatalf("expected zero counts on an empty summary, got %+v", rep)
	}
	if rep.AvgDeliveryTimeMin != 0 || rep.OrdersPerHour != 0 {
		t.Fatalf("expected zero-valued rates on an empty summary, got %+v", rep)
	}
}

func TestSummary_RecordOrderDelivered_ComputesDeliveryAndWaitTimes(t *testing.T) {
	s := NewSummary(20, 10)
	s.RecordOrderPlaced("O1", 5, 0)
	s.RecordOrderAssigned("O1", 3)
	s.RecordOrderDelivered("O1", 18, false)

	s.RecordOrderPlaced("O2", 6, 0)
	s.RecordOrderAssigned("O2", 2)
	s.RecordOrderDelivered("O2", 12, true)

	rep := s.KPIs()
	if rep.DeliveredOrders != 2 {
		t.Fatalf("expected 2 delivered orders, got %d", rep.DeliveredOrders)
	}
	if !approxEqual(rep.AvgDeliveryTimeMin, 15) {
		t.Fatalf("expected avg delivery time 15, got %v", rep.AvgDeliveryTimeMin)
	}
	if !approxEqual(rep.MinDeliveryTimeMin, 12) || !approxEqual(rep.MaxDeliveryTimeMin, 18) {
		t.Fatalf("expected min/max 12/18, got %v/%v", rep.MinDeliveryTimeMin, rep.MaxDeliveryTimeMin)
	}
	if !approxEqual(rep.AvgWaitTimeMin, 2.5) {
		t.Fatalf("expected avg wait time 2.5, got %v", rep.AvgWaitTimeMin)
	}
	if rep.BatchedOrders != 1 || !approxEqual(rep.BatchedPct, 50) {
		t.Fatalf("expected 1 batched order (50%%), got %d (%v%%)", rep.BatchedOrders, rep.BatchedPct)
	}
}

func TestSummary_OnTimePercentages_RespectTargets(t *testing.T) {
	s := NewSummary(15, 5)
	s.RecordOrderPlaced("O1", 1, 0)
	s.RecordOrderAssigned("O1", 3) // wait 3, within target 5
	s.RecordOrderDelivered("O1", 10, false)

	s.RecordOrderPlaced("O2", 2, 0)
	s.RecordOrderAssigned("O2", 8) // wait 8, exceeds target 5
	s.RecordOrderDelivered("O2", 30, false)

	rep := s.KPIs()
	if !approxEqual(rep.OnTimeDeliveryPct, 50) {
		t.Fatalf("expected 50%% on-time delivery, got %v", rep.OnTimeDeliveryPct)
	}
	if !approxEqual(rep.OnTimeWaitPct, 50) {
		t.Fatalf("expected 50%% on-time wait, got %v", rep.OnTimeWaitPct)
	}
}

func TestSummary_RecordOrderUndelivered_ExcludedFromDeliveryStats(t *testing.T) {
	s := NewSummary(20, 10)
	s.RecordOrderPlaced("O1", 5, 0)
	s.RecordOrderAssigned("O1", 3)
	s.RecordOrderDelivered("O1", 18, false)

	s.RecordOrderPlaced("O2", 7, 0)
	s.RecordOrderUndelivered("O2")

	rep := s.KPIs()
	if rep.TotalOrders != 2 {
		t.Fatalf("expected 2 total orders, got %d", rep.TotalOrders)
	}
	if rep.DeliveredOrders != 1 || rep.UndeliveredOrders != 1 {
		t.Fatalf("expected 1 delivered and 1 undelivered, got %d/%d", rep.DeliveredOrders, rep.UndeliveredOrders)
	}
	if !approxEqual(rep.AvgDeliveryTimeMin, 18) {
		t.Fatalf("undelivered order should not dilute delivery stats, got avg %v", rep.AvgDeliveryTimeMin)
	}
}

func TestSummary_AssetUtilization_ByType(t *testing.T) {
	s := NewSummary(20, 10)
	s.RegisterAsset("cart1", "beverage_cart")
	s.RegisterAsset("staff1", "delivery_staff")

	s.RecordAssetTick("cart1", true, 30)
	s.RecordAssetTick("cart1", false, 30)
	s.RecordAssetTick("staff1", true, 45)
	s.RecordAssetTick("staff1", false, 15)

	rep := s.KPIs()
	if !approxEqual(rep.UtilizationByType["beverage_cart"], 50) {
		t.Fatalf("expected cart utilization 50%%, got %v", rep.UtilizationByType["beverage_cart"])
	}
	if !approxEqual(rep.UtilizationByType["delivery_staff"], 75) {
		t.Fatalf("expected staff utilization 75%%, got %v", rep.UtilizationByType["delivery_staff"])
	}
	if !approxEqual(rep.AvgUtilizationPct, 62.5) {
		t.Fatalf("expected fleet-wide utilization 62.5%%, got %v", rep.AvgUtilizationPct)
	}
}

func TestSummary_OrdersPerHour_RequiresFinalize(t *testing.T) {
	s := NewSummary(20, 10)
	s.RecordOrderPlaced("O1", 1, 0)
	s.RecordOrderAssigned("O1", 1)
	s.RecordOrderDelivered("O1", 30, false)

	if rep := s.KPIs(); rep.OrdersPerHour != 0 {
		t.Fatalf("expected 0 orders/hour before Finalize, got %v", rep.OrdersPerHour)
	}

	s.Finalize(30)
	rep := s.KPIs()
	if !approxEqual(rep.OrdersPerHour, 2) {
		t.Fatalf("expected 2 orders/hour over a 30 minute run, got %v", rep.OrdersPerHour)
	}
}

func TestSummary_Snapshots_PreserveInsertionOrder(t *testing.T) {
	s := NewSummary(20, 10)
	s.RecordOrderPlaced("O2", 2, 0)
	s.RecordOrderPlaced("O1", 1, 0)
	s.RegisterAsset("staff1", "delivery_staff")
	s.RegisterAsset("cart1", "beverage_cart")

	orders := s.Orders()
	if len(orders) != 2 || orders[0].OrderID != "O2" || orders[1].OrderID != "O1" {
		t.Fatalf("expected orders in insertion order, got %+v", orders)
	}
	assets := s.Assets()
	if len(assets) != 2 || assets[0].AssetID != "staff1" || assets[1].AssetID != "cart1" {
		t.Fatalf("expected assets in insertion order, got %+v", assets)
	}
}

func TestOrderSample_WaitAndDeliveryTime_UnsetIsNegativeOne(t *testing.T) {
	o := OrderSample{OrderID: "O1", PlacedAt: 5}
	if o.WaitTimeMin() != -1 {
		t.Fatalf("expected -1 wait time before assignment, got %v", o.WaitTimeMin())
	}
	if o.DeliveryTimeMin() != -1 {
		t.Fatalf("expected -1 delivery time before delivery, got %v", o.DeliveryTimeMin())
	}
}

func TestAssetSample_UtilizationPct_ZeroTrackedTimeIsZero(t *testing.T) {
	a := AssetSample{AssetID: "cart1", AssetType: "beverage_cart"}
	if a.UtilizationPct() != 0 {
		t.Fatalf("expected 0%% utilization with no tracked time, got %v", a.UtilizationPct())
	}
}
