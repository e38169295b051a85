// Package middleware exposes the net/http adapter for goThrottle: a decorator that
// evaluates the caller's quota before the wrapped handler runs.
//
// # Response contract
//
//   - allow, limited identity — dispatch downstream with x-ratelimit-limit,
//     x-ratelimit-remaining, x-ratelimit-reset headers added.
//   - allow, unlimited identity — dispatch downstream untouched, no quota headers.
//   - deny — 429 with retry-after (seconds) and a JSON {code, message} body; the
//     quota header set is NOT added and the next handler is never invoked.
//   - evaluation error — 500 with a JSON {code, message} body carrying a generic
//     message; the cause is logged by the engine, never leaked, and the next
//     handler is never invoked.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// rate limiting itself — all decisions are delegated to Engine.Evaluate.
//
// # What this package must NOT do
//
//   - Parse tokens or build counter keys (the engine owns identity resolution).
//   - Access Redis (Engine handles I/O).
//   - Invoke the wrapped handler on a deny or error decision.
package middleware
