package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pacer is a fixed-interval permit scheduler. Callers acquire a permit with
// Wait before each upstream request; permits are spaced at least interval
// apart across all callers. The first permit is granted immediately.
//
// This paces calls to stay under the upstream provider's daily quota. It is
// not a correctness control and grants no fairness between waiters.
type Pacer struct {
	clock    clockwork.Clock
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// New creates a Pacer using the real clock.
func New(interval time.Duration) *Pacer {
	return NewWithClock(interval, clockwork.NewRealClock())
}

// NewWithClock creates a Pacer with an injected time source so tests can run
// against a fake clock instead of real delays.
func NewWithClock(interval time.Duration, clock clockwork.Clock) *Pacer {
	return &Pacer{
		clock:    clock,
		interval: interval,
	}
}

// Wait blocks until the caller's permit is due or ctx is cancelled. Each call
// reserves the next slot, so concurrent callers queue up at interval spacing.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.clock.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(delay):
		return nil
	}
}
