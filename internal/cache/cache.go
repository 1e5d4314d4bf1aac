// Package cache persists fetched paper records to SQLite so repeated runs of
// the same review avoid refetching from the APIs.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/litreview/internal/paper"
)

const schema = `
CREATE TABLE IF NOT EXISTS papers (
	paper_id   TEXT PRIMARY KEY,
	source     TEXT NOT NULL DEFAULT '',
	data_json  TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set writes or replaces the cached record for a paper.
func (s *Store) Set(p paper.Paper, source string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO papers (paper_id, source, data_json, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, source, string(data), s.now().UTC().Format(time.RFC3339Nano))
	return err
}

// Get returns the cached paper, or ok=false when the ID has no row.
func (s *Store) Get(paperID string) (paper.Paper, bool, error) {
	var dataJSON string
	err := s.db.QueryRow(`SELECT data_json FROM papers WHERE paper_id = ?`, paperID).Scan(&dataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return paper.Paper{}, false, nil
	}
	if err != nil {
		return paper.Paper{}, false, err
	}
	var p paper.Paper
	if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
		return paper.Paper{}, false, fmt.Errorf("decode cached paper %s: %w", paperID, err)
	}
	return p, true, nil
}

// IsExpired reports whether the row is older than ttlDays. A missing row
// counts as expired.
func (s *Store) IsExpired(paperID string, ttlDays int) (bool, error) {
	var createdAt string
	err := s.db.QueryRow(`SELECT created_at FROM papers WHERE paper_id = ?`, paperID).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return true, nil
	}
	return s.now().Sub(t) > time.Duration(ttlDays)*24*time.Hour, nil
}

// Purge deletes rows older than ttlDays and reports how many were removed.
func (s *Store) Purge(ttlDays int) (int64, error) {
	cutoff := s.now().Add(-time.Duration(ttlDays) * 24 * time.Hour).UTC().Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM papers WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of cached rows.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&n)
	return n, err
}
