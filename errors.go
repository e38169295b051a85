package goThrottle

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the rate limiting engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidConfig is an exported constant or variable used by the rate limiting engine.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingAddress is an exported constant or variable used by the rate limiting engine.
	ErrMissingAddress = errors.New("no network address attached to request")
	// ErrStoreUnavailable is an exported constant or variable used by the rate limiting engine.
	ErrStoreUnavailable = errors.New("counter store unavailable")
	// ErrCorruptRecord is an exported constant or variable used by the rate limiting engine.
	ErrCorruptRecord = errors.New("corrupt counter record")
	// ErrTokenInvalid is an exported constant or variable used by the rate limiting engine.
	ErrTokenInvalid = errors.New("invalid token")
)
