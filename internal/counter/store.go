package counter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/KarimL92/goThrottle/internal/pool"
	"github.com/redis/go-redis/v9"
)

const (
	fieldRemaining = "remaining"
	fieldExpiresAt = "expiresAt"
)

// Result carries one window evaluation: the configured ceiling, the quota left
// after this request (negative when over), and seconds until the window resets.
type Result struct {
	Limit     int
	Remaining int
	Reset     int64
}

// Store advances per-key counter records in Redis through a bounded checkout pool.
type Store struct {
	redis redis.UniversalClient
	slots *pool.Pool
	now   func() time.Time
}

// NewStore creates a counter [Store] backed by the given Redis client. Every
// evaluation checks a slot out of slots before touching Redis.
func NewStore(client redis.UniversalClient, slots *pool.Pool) *Store {
	return &Store{
		redis: client,
		slots: slots,
		now:   time.Now,
	}
}

// CheckAndUpdate advances the fixed-window counter for key and reports the
// post-update quota. A limit of -1 short-circuits without any store access.
//
// The record write is unconditional (write-through even when denying) so that a
// blocked caller's record keeps its expiry. remaining is only decremented while
// non-negative: a negative value is the "blocked until reset" sentinel and must
// not drift further down.
func (s *Store) CheckAndUpdate(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= -1 {
		return Result{Limit: -1}, nil
	}

	release, err := s.slots.Checkout(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer release()

	// The counter write must land even if the caller disconnects mid-flight,
	// otherwise admitted requests go uncounted.
	ctx = context.WithoutCancel(ctx)

	now := s.now()
	windowSeconds := int64(window / time.Second)
	remaining := limit - 1
	reset := windowSeconds
	expiresAt := now.Add(window)

	record, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if len(record) > 0 {
		storedExpiry, err := parseExpiry(record)
		if err != nil {
			return Result{}, err
		}

		reset = int64(storedExpiry.Sub(now) / time.Second)
		if reset <= 0 {
			// Window elapsed: drop the stale record and start a fresh one.
			if err := s.redis.Del(ctx, key).Err(); err != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			reset = windowSeconds
			expiresAt = now.Add(window)
		} else {
			expiresAt = storedExpiry
			remaining, err = parseRemaining(record)
			if err != nil {
				return Result{}, err
			}
			if remaining >= 0 {
				remaining--
			}
		}
	}

	if err := s.redis.HSet(ctx, key,
		fieldRemaining, remaining,
		fieldExpiresAt, expiresAt.UTC().Format(time.RFC3339),
	).Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return Result{Limit: limit, Remaining: remaining, Reset: reset}, nil
}

func parseExpiry(record map[string]string) (time.Time, error) {
	raw, ok := record[fieldExpiresAt]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %s field", ErrCorruptRecord, fieldExpiresAt)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparseable %s: %v", ErrCorruptRecord, fieldExpiresAt, err)
	}
	return t, nil
}

func parseRemaining(record map[string]string) (int, error) {
	raw, ok := record[fieldRemaining]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s field", ErrCorruptRecord, fieldRemaining)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable %s: %v", ErrCorruptRecord, fieldRemaining, err)
	}
	return n, nil
}
