package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a concurrency-safe in-memory key/value store with per-entry
// expiry. Values are pure functions of their keys, so a racing duplicate
// write is idempotent; last-write-wins is all the coordination needed.
//
// Expired entries are removed lazily when read and in bulk by Sweep, which
// the scheduler runs on a fixed interval so keys that are never re-read do
// not accumulate.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   clockwork.Clock
}

type entry struct {
	value    any
	expiry   time.Time
	noExpiry bool
}

// New creates a Cache using the real clock.
func New() *Cache {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock creates a Cache with an injected time source so tests can
// advance a fake clock instead of sleeping.
func NewWithClock(clock clockwork.Clock) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

// Set stores value under key for ttl. A non-positive ttl stores the entry
// without expiry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiry = c.clock.Now().Add(ttl)
	} else {
		e.noExpiry = true
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Get returns the live value for key. An expired entry is treated as absent
// and evicted on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.noExpiry || c.clock.Now().Before(e.expiry) {
		return e.value, true
	}

	c.mu.Lock()
	// Re-check under the write lock; another writer may have refreshed it.
	if cur, ok := c.entries[key]; ok && cur.expiry.Equal(e.expiry) && !cur.noExpiry {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil, false
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *Cache) Sweep() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !e.noExpiry && !now.Before(e.expiry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Key builds a cache key from coordinates and a query-specific suffix.
// Coordinates are rounded to two decimals (~1.1 km), deliberately trading
// location precision for hit rate.
func Key(lat, lon float64, suffix string) string {
	return fmt.Sprintf("%.2f,%.2f:%s", lat, lon, suffix)
}
