// Package prometheus renders goThrottle engine counters in Prometheus text
// exposition format without depending on a Prometheus client library.
//
// # What this package must NOT do
//
//   - Mutate engine state (read-only over MetricsSnapshot).
//   - Register collectors or talk to a Prometheus server.
package prometheus
