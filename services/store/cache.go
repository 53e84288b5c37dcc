package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sjsage522/clienreader/services/cache"
)

// Get retrieves a cache entry, deleting it when expired
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	var expiresAt int64

	err := s.db.QueryRow(`SELECT value, expires_at FROM cache_entries WHERE cache_key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if expiresAt > 0 && s.now().UnixMilli() >= expiresAt {
		s.Delete(key)
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

// Set stores a cache entry. A zero expiration never expires.
func (s *Store) Set(key string, value []byte, expiration time.Duration) error {
	var expiresAt int64
	if expiration > 0 {
		expiresAt = s.now().Add(expiration).UnixMilli()
	}

	_, err := s.db.Exec(`
    INSERT INTO cache_entries (cache_key, value, expires_at) VALUES (?, ?, ?)
    ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// PurgeExpired removes every expired cache entry and returns how many were deleted
func (s *Store) PurgeExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return res.RowsAffected()
}
