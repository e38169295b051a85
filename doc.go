// Package goThrottle provides an identity-aware, Redis-backed rate-limiting engine
// for net/http services: JWT-authenticated callers carry their own request ceiling
// inside the token, anonymous callers fall back to a per-address default, and all
// counter state lives in a shared fixed-window store.
//
// The package is designed for concurrent server workloads: Engine methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goThrottle is the public surface. It exposes [Engine], [Builder], [Config], value
// types ([Decision], [Identity], [MetricsSnapshot]) and the sentinel errors. All
// internal coordination — the counter window protocol and the store checkout pool —
// lives under internal/ and is never exported. HTTP translation lives in the
// middleware subpackage, token codec work in the jwt subpackage.
//
// # What this package must NOT do
//
//   - Expose Redis clients, record encodings, or pool internals in its public API.
//   - Perform I/O outside of [Engine.Evaluate] (construction via Builder is
//     allocation-only until Build).
//   - Cache counter records across requests; the store is the sole owner of record
//     lifetime.
//
// # Consistency contract
//
// The counter check-and-update sequence is a plain read-then-write against Redis and
// is not linearizable: concurrent evaluations on one key may both observe the same
// remaining value and under-count denials. This is the accepted baseline; see
// internal/counter for the atomic upgrade path.
package goThrottle
