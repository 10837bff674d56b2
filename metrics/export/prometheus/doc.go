// Package prometheus exposes engine metrics through client_golang.
//
// [NewCollector] reads [goSSO.Engine.MetricsSnapshot] on every scrape; counters
// are gosso_*_total and latency histograms gosso_*_latency_seconds. Nothing is
// registered globally: callers use [NewRegistry] and mount [Handler].
package prometheus
