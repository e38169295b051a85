package counter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KarimL92/goThrottle/internal/pool"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return NewStore(rdb, pool.New(4, time.Second)), mr
}

func TestCheckAndUpdateUnlimitedSkipsStore(t *testing.T) {
	store, mr := newTestStore(t)

	res, err := store.CheckAndUpdate(context.Background(), "rl_root", -1, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndUpdate failed: %v", err)
	}
	if res.Limit != -1 || res.Remaining != 0 || res.Reset != 0 {
		t.Fatalf("result = %+v, want {-1 0 0}", res)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("unlimited evaluation touched the store: keys = %v", keys)
	}
}

func TestCheckAndUpdateFreshKey(t *testing.T) {
	store, mr := newTestStore(t)

	res, err := store.CheckAndUpdate(context.Background(), "rl_10.0.0.1", 5, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndUpdate failed: %v", err)
	}
	if res.Limit != 5 || res.Remaining != 4 || res.Reset != 60 {
		t.Fatalf("result = %+v, want {5 4 60}", res)
	}

	if got := mr.HGet("rl_10.0.0.1", fieldRemaining); got != "4" {
		t.Fatalf("stored remaining = %q, want 4", got)
	}
	raw := mr.HGet("rl_10.0.0.1", fieldExpiresAt)
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("stored expiresAt %q is not RFC3339: %v", raw, err)
	}
	if until := time.Until(expiry); until < 55*time.Second || until > 61*time.Second {
		t.Fatalf("stored expiry %v from now, want about a minute", until)
	}
}

func TestCheckAndUpdateSequenceFloorsAtMinusOne(t *testing.T) {
	store, _ := newTestStore(t)

	want := []int{2, 1, 0, -1, -1, -1}
	for i, expected := range want {
		res, err := store.CheckAndUpdate(context.Background(), "rl_u1", 3, time.Minute)
		if err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
		if res.Remaining != expected {
			t.Fatalf("call %d remaining = %d, want %d", i+1, res.Remaining, expected)
		}
	}
}

func TestCheckAndUpdateCountsDownReset(t *testing.T) {
	store, _ := newTestStore(t)

	base := time.Now()
	store.now = func() time.Time { return base }

	if _, err := store.CheckAndUpdate(context.Background(), "rl_u1", 5, time.Minute); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	store.now = func() time.Time { return base.Add(10 * time.Second) }
	res, err := store.CheckAndUpdate(context.Background(), "rl_u1", 5, time.Minute)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if res.Remaining != 3 {
		t.Fatalf("remaining = %d, want 3", res.Remaining)
	}
	// RFC3339 persistence truncates to whole seconds, so reset may round down.
	if res.Reset < 49 || res.Reset > 50 {
		t.Fatalf("reset = %d, want about 50", res.Reset)
	}
}

func TestCheckAndUpdateWindowReset(t *testing.T) {
	store, _ := newTestStore(t)

	base := time.Now()
	store.now = func() time.Time { return base }

	for i := 0; i < 4; i++ {
		if _, err := store.CheckAndUpdate(context.Background(), "rl_u1", 2, time.Minute); err != nil {
			t.Fatalf("warmup call %d failed: %v", i+1, err)
		}
	}

	store.now = func() time.Time { return base.Add(61 * time.Second) }
	res, err := store.CheckAndUpdate(context.Background(), "rl_u1", 2, time.Minute)
	if err != nil {
		t.Fatalf("post-window call failed: %v", err)
	}
	if res.Remaining != 1 || res.Reset != 60 {
		t.Fatalf("result = %+v, want fresh window {2 1 60}", res)
	}
}

func TestCheckAndUpdateWriteThroughOnDeny(t *testing.T) {
	store, mr := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.CheckAndUpdate(context.Background(), "rl_u1", 1, time.Minute); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}

	if got := mr.HGet("rl_u1", fieldRemaining); got != "-1" {
		t.Fatalf("stored remaining = %q, want -1 (write-through on deny)", got)
	}
}

func TestCheckAndUpdateCorruptExpiry(t *testing.T) {
	store, mr := newTestStore(t)

	mr.HSet("rl_bad", fieldRemaining, "3")
	mr.HSet("rl_bad", fieldExpiresAt, "not-a-timestamp")

	_, err := store.CheckAndUpdate(context.Background(), "rl_bad", 5, time.Minute)
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("error = %v, want ErrCorruptRecord", err)
	}
}

func TestCheckAndUpdateCorruptRemaining(t *testing.T) {
	store, mr := newTestStore(t)

	future := time.Now().Add(time.Minute).UTC().Format(time.RFC3339)

	mr.HSet("rl_bad", fieldExpiresAt, future)
	if _, err := store.CheckAndUpdate(context.Background(), "rl_bad", 5, time.Minute); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("missing remaining: error = %v, want ErrCorruptRecord", err)
	}

	mr.HSet("rl_bad", fieldRemaining, "many")
	if _, err := store.CheckAndUpdate(context.Background(), "rl_bad", 5, time.Minute); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("unparseable remaining: error = %v, want ErrCorruptRecord", err)
	}
}

func TestCheckAndUpdateSelfHealsAfterCorruptWindowElapses(t *testing.T) {
	store, mr := newTestStore(t)

	past := time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)
	mr.HSet("rl_bad", fieldExpiresAt, past)
	mr.HSet("rl_bad", fieldRemaining, "many")

	// The elapsed window is deleted before remaining is ever read, so the
	// corrupt counter field self-heals on the next reset.
	res, err := store.CheckAndUpdate(context.Background(), "rl_bad", 5, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndUpdate failed: %v", err)
	}
	if res.Remaining != 4 {
		t.Fatalf("remaining = %d, want 4", res.Remaining)
	}
}

func TestCheckAndUpdateStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.CheckAndUpdate(context.Background(), "rl_u1", 5, time.Minute)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("error = %v, want ErrStoreUnavailable", err)
	}
}

func TestCheckAndUpdateCompletesAfterCallerDisconnect(t *testing.T) {
	store, mr := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled request context must not abort the counter write; only the
	// pool checkout honors cancellation.
	res, err := store.CheckAndUpdate(ctx, "rl_u1", 5, time.Minute)
	if err != nil {
		// Checkout saw the canceled context before a slot was taken.
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("error = %v, want ErrStoreUnavailable wrapping cancellation", err)
		}
		return
	}
	if res.Remaining != 4 {
		t.Fatalf("remaining = %d, want 4", res.Remaining)
	}
	if got := mr.HGet("rl_u1", fieldRemaining); got != "4" {
		t.Fatalf("stored remaining = %q, want 4", got)
	}
}
