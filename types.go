package goThrottle

// IdentityKind defines a public type used by goThrottle APIs.
//
// IdentityKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityKind uint8

const (
	// IdentityAnonymous is an exported constant or variable used by the rate limiting engine.
	IdentityAnonymous IdentityKind = iota
	// IdentityAuthenticated is an exported constant or variable used by the rate limiting engine.
	IdentityAuthenticated
	// IdentityUnresolved is an exported constant or variable used by the rate limiting engine.
	IdentityUnresolved
)

// Identity is the resolved caller of one request: an authenticated principal with
// the limit baked into its token, an anonymous caller keyed by network address, or
// unresolved when limiting is active but no discriminator is available.
//
//	Docs: docs/identity.md
type Identity struct {
	Kind    IdentityKind
	UserID  string
	Address string

	// Limit is the request ceiling per window. -1 means unlimited.
	Limit int
}

// Decision is the outcome of one rate-limit evaluation. Remaining is only
// meaningful when Limit >= 0; a negative Remaining marks the caller as blocked
// until the window resets.
//
//	Docs: docs/decisions.md
type Decision struct {
	Limit     int
	Remaining int

	// Reset is the number of seconds until the current window expires.
	Reset int64
}

// Unlimited reports whether this evaluation bypassed counting entirely.
func (d Decision) Unlimited() bool { return d.Limit <= -1 }

// Allowed reports whether the request may be dispatched downstream.
func (d Decision) Allowed() bool { return d.Unlimited() || d.Remaining >= 0 }

// Denied reports whether the request must be rejected with a retry-after signal.
func (d Decision) Denied() bool { return !d.Allowed() }
