// Package otel bridges engine metrics into an OpenTelemetry meter.
//
// Counters become Int64ObservableCounter instruments named gosso_*_total. Each
// latency histogram becomes eight cumulative bucket gauges plus a count gauge.
package otel
