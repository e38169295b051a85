// Package jwt implements the identity token codec: issuing signed claim sets that
// embed a per-user request-rate limit, and verifying them back into [Claims].
//
// # Claim set
//
// Tokens carry the registered claims (sub, exp, iat, nbf, jti) plus:
//
//   - user_id — the principal identifier used as the counter key discriminator
//   - user_roles — comma-separated role string, opaque to this module
//   - user_rate_limit — requests per window, -1 meaning unlimited
//
// Verification enforces signature, algorithm allow-list, exp, and nbf; any
// failure collapses into the single opaque [ErrTokenInvalid] so that a partially
// trusted claim set can never leak out.
//
// # What this package must NOT do
//
//   - Access Redis or any other store (pure computation only).
//   - Distinguish failure causes in its public error surface.
//   - Accept a token whose algorithm differs from the configured one.
package jwt
