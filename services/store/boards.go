package store

import (
	"database/sql"
	"fmt"

	"sjsage522/clienreader/internal/crawler"
)

// CustomBoards returns the user's boards in the order they were added
func (s *Store) CustomBoards() ([]crawler.BoardRef, error) {
	rows, err := s.db.Query(`SELECT title, url, description FROM custom_boards ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom boards: %w", err)
	}
	defer rows.Close()

	var boards []crawler.BoardRef
	for rows.Next() {
		var b crawler.BoardRef
		var description sql.NullString
		if err := rows.Scan(&b.Title, &b.URL, &description); err != nil {
			return nil, fmt.Errorf("failed to scan custom board: %w", err)
		}
		b.Description = description.String
		b.Custom = true
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// AddCustomBoard saves a board, replacing the title of an existing one with the same URL
func (s *Store) AddCustomBoard(board crawler.BoardRef) error {
	_, err := s.db.Exec(`
    INSERT INTO custom_boards (url, title, description, created_at) VALUES (?, ?, ?, ?)
    ON CONFLICT(url) DO UPDATE SET title = excluded.title, description = excluded.description`,
		board.URL, board.Title, board.Description, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save custom board %s: %w", board.URL, err)
	}
	return nil
}

// RemoveCustomBoard deletes the board with url
func (s *Store) RemoveCustomBoard(url string) error {
	if _, err := s.db.Exec(`DELETE FROM custom_boards WHERE url = ?`, url); err != nil {
		return fmt.Errorf("failed to remove custom board %s: %w", url, err)
	}
	return nil
}
