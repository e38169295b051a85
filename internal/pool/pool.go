package pool

import (
	"context"
	"errors"
	"time"
)

// ErrCheckoutTimeout is returned when every slot stayed busy for the whole
// checkout window.
var ErrCheckoutTimeout = errors.New("pool checkout timed out")

// Pool is a bounded set of checkout slots. The zero value is not usable; create
// one with [New].
type Pool struct {
	slots   chan struct{}
	timeout time.Duration
}

// New creates a pool with the given number of slots. checkoutTimeout bounds how
// long Checkout waits for a free slot; zero means wait as long as ctx allows.
func New(size int, checkoutTimeout time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		slots:   make(chan struct{}, size),
		timeout: checkoutTimeout,
	}
}

// Checkout blocks until a slot is free, the checkout timeout elapses, or ctx
// ends. On success the returned release function must be called exactly once.
func (p *Pool) Checkout(ctx context.Context) (release func(), err error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	select {
	case p.slots <- struct{}{}:
		return func() { <-p.slots }, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrCheckoutTimeout
		}
		return nil, ctx.Err()
	}
}

// Cap returns the total number of slots.
func (p *Pool) Cap() int { return cap(p.slots) }

// InUse returns the number of slots currently checked out.
func (p *Pool) InUse() int { return len(p.slots) }
