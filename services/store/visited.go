package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// VisitedPost is a post the user has opened
type VisitedPost struct {
	URL       string
	Title     string
	VisitedAt time.Time
}

// MarkVisited records postURL as visited now
func (s *Store) MarkVisited(postURL, title string) error {
	_, err := s.db.Exec(`
    INSERT INTO visited_posts (url, title, visited_at) VALUES (?, ?, ?)
    ON CONFLICT(url) DO UPDATE SET title = excluded.title, visited_at = excluded.visited_at`,
		postURL, title, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark post %s visited: %w", postURL, err)
	}
	return nil
}

// IsVisited reports whether postURL was visited
func (s *Store) IsVisited(postURL string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM visited_posts WHERE url = ?`, postURL).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up visited post: %w", err)
	}
	return true, nil
}

// VisitedPosts returns the most recently visited posts first. limit <= 0 returns all.
func (s *Store) VisitedPosts(limit int) ([]VisitedPost, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`SELECT url, title, visited_at FROM visited_posts ORDER BY visited_at DESC, url LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list visited posts: %w", err)
	}
	defer rows.Close()

	var posts []VisitedPost
	for rows.Next() {
		var p VisitedPost
		var title sql.NullString
		var visitedAt int64
		if err := rows.Scan(&p.URL, &title, &visitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visited post: %w", err)
		}
		p.Title = title.String
		p.VisitedAt = time.Unix(visitedAt, 0)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ClearVisited forgets every visited post
func (s *Store) ClearVisited() error {
	if _, err := s.db.Exec(`DELETE FROM visited_posts`); err != nil {
		return fmt.Errorf("failed to clear visited posts: %w", err)
	}
	return nil
}
