package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver

	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/cache"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    cache_key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS visited_posts (
    url TEXT PRIMARY KEY,
    title TEXT,
    visited_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS custom_boards (
    url TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    created_at INTEGER NOT NULL
);`

// Store is the sqlite database holding the disk cache tier, visited posts and custom boards
type Store struct {
	db  *sql.DB
	now cache.Clock
}

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*Store, error) {
	// Ensure the directory for the database file exists.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.ForStore().Debug().Str("path", dbPath).Msg("database ready")
	return &Store{db: db, now: time.Now}, nil
}

// SetClock replaces the store's time source
func (s *Store) SetClock(clock cache.Clock) {
	s.now = clock
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
