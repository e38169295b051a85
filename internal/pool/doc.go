// Package pool provides internal primitives for bounded checkout/return access to
// the shared counter store. A [Pool] is a fixed set of slots: an evaluation checks
// one out before touching Redis and returns it when the store round-trips finish,
// never holding it across downstream dispatch.
//
// Backpressure surfaces here: when every slot is busy, checkout waits up to the
// configured timeout and then fails, so a store outage becomes an evaluation error
// instead of an unbounded stall.
//
// # What this package must NOT do
//
//   - Own or wrap the Redis client (go-redis manages connections; this pool only
//     bounds concurrent evaluations).
//   - Be imported outside the goThrottle module.
package pool
