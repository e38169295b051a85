package counter

import "errors"

var (
	// ErrStoreUnavailable is an exported constant or variable used by the rate limiting engine.
	ErrStoreUnavailable = errors.New("counter store unavailable")
	// ErrCorruptRecord is an exported constant or variable used by the rate limiting engine.
	ErrCorruptRecord = errors.New("corrupt counter record")
)
