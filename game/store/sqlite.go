package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a DraftStore backed by a single-table SQLite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates if missing) a SQLite draft store at
// dsn. WAL journaling and a busy timeout are configured so the store
// tolerates slow disks without blocking the game loop for long.
func NewSQLite(dsn string) (*SQLite, error) {
	// Ensure directory exists for ./data/drafts.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create drafts table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Save upserts the value for key
func (s *SQLite) Save(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO drafts (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", key, err)
	}
	return nil
}

// Load retrieves the value for key, reporting absence via ok
func (s *SQLite) Load(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM drafts WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load draft %s: %w", key, err)
	}
	return value, true, nil
}

// Clear removes the row for key. A missing row is not an error.
func (s *SQLite) Clear(key string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear draft %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}
