package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGetAfterExpiryIsAbsent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("k", 42, time.Minute)

	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry must be live before its ttl elapses")

	clock.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	// The expired entry is evicted on access, not just hidden.
	assert.Equal(t, 0, c.Len())
}

func TestSetWithoutTTLNeverExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("k", "forever", 0)
	clock.Advance(1000 * time.Hour)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestOverwriteRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("k", 1, time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", 2, time.Minute)
	clock.Advance(30 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestSweepRemovesOnlyExpiredEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("short", 1, time.Minute)
	c.Set("long", 2, time.Hour)
	c.Set("pinned", 3, 0)

	clock.Advance(10 * time.Minute)

	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("long")
	assert.True(t, ok)
	_, ok = c.Get("pinned")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestKeyRoundsCoordinates(t *testing.T) {
	// ~1.1km precision: nearby coordinates share a key on purpose.
	assert.Equal(t,
		Key(40.123, -74.456, "trends:2000-2010"),
		Key(40.1201, -74.4649, "trends:2000-2010"))

	assert.NotEqual(t,
		Key(40.12, -74.46, "trends:2000-2010"),
		Key(40.12, -74.46, "trends:2000-2011"))
}
