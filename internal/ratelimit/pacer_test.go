package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstPermitIsImmediate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewWithClock(2*time.Second, clock)

	// No Advance needed: the first caller must not block.
	require.NoError(t, p.Wait(context.Background()))
}

func TestSecondPermitWaitsForInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewWithClock(2*time.Second, clock)

	require.NoError(t, p.Wait(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- p.Wait(context.Background())
	}()

	// The second caller is parked on the fake clock.
	clock.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("second permit granted before the interval elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(2 * time.Second)
	require.NoError(t, <-done)
}

func TestConcurrentWaitersAreSpacedOut(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewWithClock(time.Second, clock)

	require.NoError(t, p.Wait(context.Background()))

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- p.Wait(context.Background())
		}()
	}

	clock.BlockUntil(2)

	// One interval releases exactly one waiter.
	clock.Advance(time.Second)
	require.NoError(t, <-done)
	select {
	case <-done:
		t.Fatal("both waiters released after a single interval")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Second)
	require.NoError(t, <-done)
}

func TestWaitHonoursContextCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewWithClock(time.Minute, clock)

	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Wait(ctx)
	}()

	clock.BlockUntil(1)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestZeroIntervalNeverBlocks(t *testing.T) {
	p := New(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}
