package cache

import (
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryService implements CacheService in process memory.
// It backs the rate-limit block when no shared cache is configured.
type MemoryService struct {
	items sync.Map
	now   Clock
}

// NewMemoryService creates an in-memory cache service. A nil clock uses time.Now.
func NewMemoryService(clock Clock) *MemoryService {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryService{now: clock}
}

// Get retrieves a value, evicting it when expired
func (m *MemoryService) Get(key string) ([]byte, error) {
	raw, ok := m.items.Load(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	item := raw.(*memoryItem)
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		m.items.CompareAndDelete(key, raw)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value. A zero expiration never expires.
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	item := &memoryItem{value: append([]byte(nil), value...)}
	if expiration > 0 {
		item.expiresAt = m.now().Add(expiration)
	}
	m.items.Store(key, item)
	return nil
}

// Delete removes a value
func (m *MemoryService) Delete(key string) error {
	m.items.Delete(key)
	return nil
}
