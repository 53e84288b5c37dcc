package cache

import (
	"sync"
	"time"
)

// Entry is a cached value with its write time
type Entry[T any] struct {
	Value     T         `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the entry is younger than ttl at now
func (e Entry[T]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

// Clock returns the current time
type Clock func() time.Time

// TTLCache is a concurrent in-memory map whose entries expire after a fixed TTL.
// Expired entries are evicted lazily on lookup.
type TTLCache[T any] struct {
	entries sync.Map
	ttl     time.Duration
	now     Clock
}

// NewTTLCache creates a TTL cache. A nil clock uses time.Now.
func NewTTLCache[T any](ttl time.Duration, clock Clock) *TTLCache[T] {
	if clock == nil {
		clock = time.Now
	}
	return &TTLCache[T]{ttl: ttl, now: clock}
}

// Get returns the value for key if present and not expired
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T

	raw, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}

	entry := raw.(*Entry[T])
	if !entry.Valid(c.now(), c.ttl) {
		c.entries.CompareAndDelete(key, raw)
		return zero, false
	}
	return entry.Value, true
}

// Set stores value under key stamped with the current time
func (c *TTLCache[T]) Set(key string, value T) {
	c.entries.Store(key, &Entry[T]{Value: value, Timestamp: c.now()})
}

// Delete removes key
func (c *TTLCache[T]) Delete(key string) {
	c.entries.Delete(key)
}

// Len returns the number of stored entries, expired or not
func (c *TTLCache[T]) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// TTL returns the configured time-to-live
func (c *TTLCache[T]) TTL() time.Duration {
	return c.ttl
}

// restore stores an entry keeping its original timestamp
func (c *TTLCache[T]) restore(key string, entry Entry[T]) {
	c.entries.Store(key, &entry)
}
