// Package metrics accumulates per-order and per-asset samples during a
// simulation run and reduces them to the KPI report spec §4.8 defines:
// delivery/wait time statistics, utilization, throughput, batching rate,
// and on-time percentages. Every reducing method is a pure function of
// the accumulated samples, so KPIs() may be called mid-run for a live
// dashboard or once at the end for the final report.
//
// Grounded on _examples/original_source/src/simulation_summary.py's
// SimulationSummary/OrderMetrics/AssetMetrics dataclasses and
// calculate_kpis(), translated from running Python means/stdev into
// gonum.org/v1/gonum/stat calls over accumulated sample slices.
package metrics
