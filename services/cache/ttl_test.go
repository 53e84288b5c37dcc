package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache_GetBeforeExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[[]string](10*time.Hour, clock.Now)

	c.Set("https://m.clien.net/service/board/park", []string{"a", "b"})
	clock.Advance(10*time.Hour - time.Second)

	value, ok := c.Get("https://m.clien.net/service/board/park")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, value)
}

func TestTTLCache_ExpiredEntryIsEvicted(t *testing.T) {
	clock := newFakeClock()
	c := NewTTLCache[string](time.Hour, clock.Now)

	c.Set("key", "value")
	assert.Equal(t, 1, c.Len())

	clock.Advance(time.Hour)

	value, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, "", value)
	assert.Equal(t, 0, c.Len(), "expired entry must be removed on lookup")
}

func TestTTLCache_Delete(t *testing.T) {
	c := NewTTLCache[int](time.Hour, nil)
	c.Set("key", 1)
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := NewTTLCache[int](time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}

func TestEntryValid(t *testing.T) {
	now := time.Now()
	entry := Entry[string]{Value: "v", Timestamp: now.Add(-time.Minute)}

	assert.True(t, entry.Valid(now, 2*time.Minute))
	assert.False(t, entry.Valid(now, time.Minute))
}
