package goThrottle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/KarimL92/goThrottle/internal/counter"
	"github.com/KarimL92/goThrottle/jwt"
	"github.com/rs/zerolog"
)

// Engine defines a public type used by goThrottle APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	tokens  *jwt.Manager
	store   *counter.Store
	logger  zerolog.Logger
	metrics metricSet
}

// Enabled reports whether rate limiting is active. The middleware uses it for
// the fast bypass: when false, identity is never resolved.
func (e *Engine) Enabled() bool {
	return e != nil && e.config.Limiter.Enabled
}

// Evaluate resolves the caller's identity from the request headers and network
// address, then advances the caller's counter window and returns the resulting
// [Decision].
//
// Unlimited identities (limit -1) never touch the store. An unresolved identity
// (anonymous caller, limiting active, no address) returns [ErrMissingAddress];
// store failures return an error wrapping [ErrStoreUnavailable] or
// [ErrCorruptRecord]. Evaluate is the hot path and is safe for concurrent use.
func (e *Engine) Evaluate(ctx context.Context, header http.Header, remoteAddr string) (Decision, error) {
	if e == nil || e.store == nil {
		return Decision{}, ErrEngineNotReady
	}
	e.metrics.add(MetricEvaluations)

	ident := e.ResolveIdentity(header, remoteAddr)
	switch {
	case ident.Kind == IdentityUnresolved:
		e.metrics.add(MetricMissingAddress)
		e.logger.Error().Msg("rate limiting active but request carries no network address")
		return Decision{}, ErrMissingAddress
	case ident.Limit <= -1:
		e.metrics.add(MetricUnlimited)
		return Decision{Limit: -1}, nil
	}

	key := e.recordKey(ident)
	res, err := e.store.CheckAndUpdate(ctx, key, ident.Limit, e.config.Limiter.Window)
	if err != nil {
		e.metrics.add(MetricStoreErrors)
		e.logger.Error().Err(err).Str("key", key).Msg("rate limit evaluation failed")
		return Decision{}, translateStoreError(err)
	}

	decision := Decision{Limit: res.Limit, Remaining: res.Remaining, Reset: res.Reset}
	if decision.Denied() {
		e.metrics.add(MetricDenied)
	} else {
		e.metrics.add(MetricAllowed)
	}
	return decision, nil
}

// ResolveIdentity maps request metadata to an [Identity].
//
// A successfully verified bearer token always wins, regardless of address
// availability, because it carries the caller-specific limit inside the trusted
// claims. A failed verification is not an error: the caller simply falls back
// to the anonymous path. The address is only consulted when anonymous limiting
// is actually active (default limit >= 0).
func (e *Engine) ResolveIdentity(header http.Header, remoteAddr string) Identity {
	if token, ok := bearerToken(header.Get("Authorization")); ok {
		claims, err := e.tokens.Parse(token)
		if err == nil {
			return Identity{Kind: IdentityAuthenticated, UserID: claims.UserID, Limit: claims.RateLimit}
		}
		e.metrics.add(MetricTokenRejected)
		e.logger.Debug().Err(err).Msg("bearer token rejected, falling back to anonymous resolution")
	}

	limit := e.config.Limiter.DefaultLimit
	if limit <= -1 {
		return Identity{Kind: IdentityAnonymous, Limit: -1}
	}
	if remoteAddr != "" {
		return Identity{Kind: IdentityAnonymous, Address: remoteAddr, Limit: limit}
	}
	return Identity{Kind: IdentityUnresolved}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.snapshot()
}

// recordKey addresses one counter record: prefix plus the identity discriminator
// (user id for authenticated callers, textual address for anonymous ones).
func (e *Engine) recordKey(ident Identity) string {
	if ident.Kind == IdentityAuthenticated {
		return e.config.Limiter.KeyPrefix + ident.UserID
	}
	return e.config.Limiter.KeyPrefix + ident.Address
}

func translateStoreError(err error) error {
	if errors.Is(err, counter.ErrCorruptRecord) {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
