package test

import (
	"testing"

	goThrottle "github.com/KarimL92/goThrottle"
	"github.com/KarimL92/goThrottle/jwt"
	"github.com/KarimL92/goThrottle/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goThrottle.New
	_ = goThrottle.DefaultConfig
	_ = middleware.RateLimit
	_ = jwt.NewManager

	var _ *goThrottle.Engine
	var _ goThrottle.Config
	var _ goThrottle.Decision
	var _ goThrottle.Identity
	var _ goThrottle.MetricsSnapshot
	var _ *jwt.Manager
	var _ jwt.Claims

	var _ error = goThrottle.ErrEngineNotReady
	var _ error = goThrottle.ErrInvalidConfig
	var _ error = goThrottle.ErrMissingAddress
	var _ error = goThrottle.ErrStoreUnavailable
	var _ error = goThrottle.ErrCorruptRecord
	var _ error = goThrottle.ErrTokenInvalid
	var _ error = jwt.ErrTokenInvalid

	var kinds = []goThrottle.IdentityKind{
		goThrottle.IdentityAnonymous,
		goThrottle.IdentityAuthenticated,
		goThrottle.IdentityUnresolved,
	}
	if len(kinds) != 3 {
		t.Fatal("identity kinds changed")
	}
}
