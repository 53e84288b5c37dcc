package cache

import (
	"encoding/json"
	"errors"
	"time"

	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
)

// Tiered is a typed cache with an in-memory TTL map in front of an optional
// CacheService. The second tier stores JSON entries with their write time.
type Tiered[T any] struct {
	category     string
	memory       *TTLCache[T]
	secondary    CacheService
	secondaryTTL time.Duration
	now          Clock
}

// NewTiered creates a tiered cache for one value category (menu, list, detail).
// secondary may be nil for a memory-only cache.
func NewTiered[T any](category string, memoryTTL time.Duration, secondary CacheService, secondaryTTL time.Duration, clock Clock) *Tiered[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Tiered[T]{
		category:     category,
		memory:       NewTTLCache[T](memoryTTL, clock),
		secondary:    secondary,
		secondaryTTL: secondaryTTL,
		now:          clock,
	}
}

// Get returns the cached value from the first tier that holds a valid entry
func (t *Tiered[T]) Get(key string) (T, bool) {
	if value, ok := t.memory.Get(key); ok {
		metrics.ObserveCache(t.category, "memory", true)
		return value, true
	}
	metrics.ObserveCache(t.category, "memory", false)

	var zero T
	if t.secondary == nil {
		return zero, false
	}

	entry, ok := t.loadSecondary(key)
	metrics.ObserveCache(t.category, "secondary", ok)
	if !ok {
		return zero, false
	}

	t.memory.restore(key, entry)
	return entry.Value, true
}

func (t *Tiered[T]) loadSecondary(key string) (Entry[T], bool) {
	var entry Entry[T]

	data, err := t.secondary.Get(t.secondaryKey(key))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.ForCache().Warn().Err(err).Str("category", t.category).Msg("second tier read failed")
		}
		return entry, false
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		logger.ForCache().Warn().Err(err).Str("category", t.category).Msg("corrupt cache entry dropped")
		t.secondary.Delete(t.secondaryKey(key))
		return entry, false
	}

	if !entry.Valid(t.now(), t.secondaryTTL) {
		t.secondary.Delete(t.secondaryKey(key))
		return entry, false
	}
	return entry, true
}

// Set stores value in every tier
func (t *Tiered[T]) Set(key string, value T) {
	t.memory.Set(key, value)
	if t.secondary == nil {
		return
	}

	data, err := json.Marshal(Entry[T]{Value: value, Timestamp: t.now()})
	if err != nil {
		logger.ForCache().Warn().Err(err).Str("category", t.category).Msg("cache entry not serializable")
		return
	}
	if err := t.secondary.Set(t.secondaryKey(key), data, t.secondaryTTL); err != nil {
		logger.ForCache().Warn().Err(err).Str("category", t.category).Msg("second tier write failed")
	}
}

// Delete removes key from every tier
func (t *Tiered[T]) Delete(key string) {
	t.memory.Delete(key)
	if t.secondary != nil {
		if err := t.secondary.Delete(t.secondaryKey(key)); err != nil {
			logger.ForCache().Warn().Err(err).Str("category", t.category).Msg("second tier delete failed")
		}
	}
}

func (t *Tiered[T]) secondaryKey(key string) string {
	return t.category + ":" + key
}
