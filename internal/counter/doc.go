// Package counter implements the fixed-window check-and-update protocol over Redis
// hash records.
//
// # Record layout
//
// One hash per identity key:
//
//   - remaining — signed integer; quota left after the last admitted request.
//     Negative marks the caller as blocked until reset and is floored at -1.
//   - expiresAt — RFC3339 timestamp of the window end.
//
// Records are created on first hit (remaining = limit-1), decremented on every
// subsequent hit inside the window, and lazily deleted-then-recreated on the first
// hit after the window elapses. No Redis TTL is set: the protocol owns record
// lifetime through the expiresAt field alone (fetch-all, set-field, delete are the
// only primitives required of the store).
//
// # Consistency
//
// HGETALL followed by HSET is a read-then-write without compare-and-swap:
// concurrent calls on one key can both observe the same remaining value and
// under-count denials. Implementers needing strict accuracy should replace the
// sequence with a single server-side Lua script keyed identically; this package
// keeps the weaker baseline on purpose.
//
// # What this package must NOT do
//
//   - Resolve identities or build keys (callers pass the final record key).
//   - Cache records between calls.
//   - Be imported outside the goThrottle module.
package counter
