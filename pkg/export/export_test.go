package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fairwaydispatch/caddie/core/metrics"
)

func TestWriteJSON(t *testing.T) {
	report := metrics.Report{TotalOrders: 10, DeliveredOrders: 8, BatchedPct: 25.0}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var got metrics.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalOrders != 10 || got.DeliveredOrders != 8 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	report := metrics.Report{TotalOrders: 5, DeliveredOrders: 4, UndeliveredOrders: 1}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "5,4,1,") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestWriteOrdersCSV(t *testing.T) {
	orders := []metrics.OrderSample{
		{OrderID: "O1", Hole: 5, PlacedAt: 0, AssignedAt: 2, Delivered: true, DeliveredAt: 9, Batched: true},
	}
	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		t.Fatalf("write orders csv: %v", err)
	}
	if !strings.Contains(buf.String(), "O1,5,0,2,9,true,true") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteAssetsCSV(t *testing.T) {
	assets := []metrics.AssetSample{
		{AssetID: "cart1", AssetType: "beverage_cart", ActiveMinutes: 30, IdleMinutes: 10, Deliveries: 4},
	}
	var buf bytes.Buffer
	if err := WriteAssetsCSV(&buf, assets); err != nil {
		t.Fatalf("write assets csv: %v", err)
	}
	if !strings.Contains(buf.String(), "cart1,beverage_cart,30,10,4,75") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
