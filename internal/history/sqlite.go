package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"nanobanana/internal/domain"
)

// SQLiteStore keeps the list in a single-row key-value table of a local
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" || p == "." {
		return nil, errors.New("history: missing sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// Single-process local DB.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.HistoryItem{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return decode([]byte(value))
}

func (s *SQLiteStore) Save(ctx context.Context, items []domain.HistoryItem) error {
	data, err := encode(items)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO kv(key, value, updated_at_unix_ms) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at_unix_ms = excluded.updated_at_unix_ms
`, Key, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
