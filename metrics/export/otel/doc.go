// Package otel bridges goThrottle engine counters to OpenTelemetry as observable
// counters: values are pulled from MetricsSnapshot on each collection cycle rather
// than pushed per event, keeping the evaluation hot path free of OTel calls.
//
// # What this package must NOT do
//
//   - Instrument the hot path directly (snapshot-pull only).
//   - Configure providers, readers, or exporters (callers own the OTel pipeline).
package otel
