package goThrottle

import (
	"fmt"
	"strings"
	"time"
)

// Config defines a public type used by goThrottle APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Limiter LimiterConfig
	JWT     JWTConfig
	Pool    PoolConfig
}

/*
====================================
LIMITER CONFIG
====================================
*/

// LimiterConfig defines a public type used by goThrottle APIs.
//
// LimiterConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LimiterConfig struct {
	// Enabled toggles the whole subsystem. When false the middleware dispatches
	// every request untouched and never resolves identity.
	Enabled bool

	// DefaultLimit is the per-window request ceiling applied to anonymous
	// callers. -1 disables limiting for anonymous traffic entirely (no address
	// lookup, no store access).
	DefaultLimit int

	// Window is the fixed counting window. Counter records expire Window after
	// their first hit and are recreated on the next request.
	Window time.Duration

	// KeyPrefix namespaces counter records in the shared store.
	KeyPrefix string
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by goThrottle APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	SigningMethod string // "hs512" (default), "hs256" optional
	Secret        []byte
	Leeway        time.Duration
}

/*
====================================
POOL CONFIG
====================================
*/

// PoolConfig defines a public type used by goThrottle APIs.
//
// PoolConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PoolConfig struct {
	// Size bounds the number of concurrent store evaluations.
	Size int

	// CheckoutTimeout bounds the wait for a free slot so a store outage
	// surfaces as an evaluation error rather than an indefinite stall.
	CheckoutTimeout time.Duration
}

// DefaultConfig returns the configuration used when a Builder is created
// without [Builder.WithConfig].
func DefaultConfig() Config {
	return Config{
		Limiter: LimiterConfig{
			Enabled:      true,
			DefaultLimit: 30,
			Window:       time.Minute,
			KeyPrefix:    "rl_",
		},
		JWT: JWTConfig{
			SigningMethod: "hs512",
		},
		Pool: PoolConfig{
			Size:            16,
			CheckoutTimeout: 500 * time.Millisecond,
		},
	}
}

// Validate checks the configuration for values the engine cannot operate with.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Limiter.Window <= 0 {
		return fmt.Errorf("%w: limiter window must be positive", ErrInvalidConfig)
	}
	if c.Limiter.DefaultLimit < -1 {
		return fmt.Errorf("%w: default limit must be >= -1", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Limiter.KeyPrefix) != c.Limiter.KeyPrefix {
		return fmt.Errorf("%w: key prefix must not carry surrounding whitespace", ErrInvalidConfig)
	}

	switch c.JWT.SigningMethod {
	case "hs256", "hs512":
	default:
		return fmt.Errorf("%w: unsupported jwt signing method %q", ErrInvalidConfig, c.JWT.SigningMethod)
	}
	if len(c.JWT.Secret) == 0 {
		return fmt.Errorf("%w: jwt secret required", ErrInvalidConfig)
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return fmt.Errorf("%w: jwt leeway out of range", ErrInvalidConfig)
	}

	if c.Pool.Size <= 0 {
		return fmt.Errorf("%w: pool size must be positive", ErrInvalidConfig)
	}
	if c.Pool.CheckoutTimeout <= 0 {
		return fmt.Errorf("%w: pool checkout timeout must be positive", ErrInvalidConfig)
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.JWT.Secret != nil {
		out.JWT.Secret = make([]byte, len(cfg.JWT.Secret))
		copy(out.JWT.Secret, cfg.JWT.Secret)
	}
	return out
}
