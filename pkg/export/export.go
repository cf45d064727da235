package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/fairwaydispatch/caddie/core/metrics"
)

// WriteJSON writes a scenario's KPI report to w in JSON format.
func WriteJSON(w io.Writer, report metrics.Report) error {
	enc := json.NewEncoder(w)
	return enc.Encode(report)
}

// WriteCSV writes a scenario's KPI report to w as a single-row CSV, headers
// first.
func WriteCSV(w io.Writer, report metrics.Report) error {
	cw := csv.NewWriter(w)
	header := []string{
		"total_orders", "delivered_orders", "undelivered_orders", "batched_orders",
		"avg_delivery_time_min", "median_delivery_time_min", "avg_wait_time_min",
		"orders_per_hour", "batched_pct", "on_time_delivery_pct", "on_time_wait_pct",
		"avg_utilization_pct",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := []string{
		strconv.Itoa(report.TotalOrders),
		strconv.Itoa(report.DeliveredOrders),
		strconv.Itoa(report.UndeliveredOrders),
		strconv.Itoa(report.BatchedOrders),
		strconv.FormatFloat(report.AvgDeliveryTimeMin, 'f', -1, 64),
		strconv.FormatFloat(report.MedianDeliveryTimeMin, 'f', -1, 64),
		strconv.FormatFloat(report.AvgWaitTimeMin, 'f', -1, 64),
		strconv.FormatFloat(report.OrdersPerHour, 'f', -1, 64),
		strconv.FormatFloat(report.BatchedPct, 'f', -1, 64),
		strconv.FormatFloat(report.OnTimeDeliveryPct, 'f', -1, 64),
		strconv.FormatFloat(report.OnTimeWaitPct, 'f', -1, 64),
		strconv.FormatFloat(report.AvgUtilizationPct, 'f', -1, 64),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrdersCSV writes one row per order sample, for post-hoc analysis of
// a run's raw lifecycle data rather than its reduced KPIs.
func WriteOrdersCSV(w io.Writer, orders []metrics.OrderSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"order_id", "hole", "placed_at", "wait_time_min", "delivery_time_min", "batched", "delivered"}); err != nil {
		return err
	}
	for _, o := range orders {
		rec := []string{
			o.OrderID,
			strconv.Itoa(o.Hole),
			strconv.FormatFloat(o.PlacedAt, 'f', -1, 64),
			strconv.FormatFloat(o.WaitTimeMin(), 'f', -1, 64),
			strconv.FormatFloat(o.DeliveryTimeMin(), 'f', -1, 64),
			strconv.FormatBool(o.Batched),
			strconv.FormatBool(o.Delivered),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAssetsCSV writes one row per fleet asset's utilization sample.
func WriteAssetsCSV(w io.Writer, assets []metrics.AssetSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"asset_id", "asset_type", "active_minutes", "idle_minutes", "deliveries", "utilization_pct"}); err != nil {
		return err
	}
	for _, a := range assets {
		rec := []string{
			a.AssetID,
			a.AssetType,
			strconv.FormatFloat(a.ActiveMinutes, 'f', -1, 64),
			strconv.FormatFloat(a.IdleMinutes, 'f', -1, 64),
			strconv.Itoa(a.Deliveries),
			strconv.FormatFloat(a.UtilizationPct(), 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
