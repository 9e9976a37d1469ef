package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jobscout/jobscout/internal/model"
)

// SQLiteStore keeps previously seen postings in a SQLite database, one row per
// url. Writes are durable as soon as Record returns, so Persist is a no-op;
// the MatchStore contract (load wholesale, idempotent record, no partial
// state) holds either way.
type SQLiteStore struct {
	db *sql.DB
}

var _ model.MatchStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the matches table exists.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS matches (
		url        TEXT PRIMARY KEY,
		record     TEXT NOT NULL,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating matches table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the full url → record mapping.
func (s *SQLiteStore) Load() (map[string]model.JobRecord, error) {
	rows, err := s.db.Query("SELECT url, record FROM matches")
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.JobRecord)
	for rows.Next() {
		var url, raw string
		if err := rows.Scan(&url, &raw); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		var job model.JobRecord
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, fmt.Errorf("parsing stored record for %s: %w", url, err)
		}
		out[url] = job
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}
	return out, nil
}

// Contains reports whether the url has been recorded before.
func (s *SQLiteStore) Contains(url string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM matches WHERE url = ?", url).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", url, err)
	}
	return true, nil
}

// Record inserts the job under its url. An existing url is left untouched.
func (s *SQLiteStore) Record(job model.JobRecord) error {
	if job.URL == "" {
		return errors.New("cannot record job without url")
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal record for %s: %w", job.URL, err)
	}

	_, err = s.db.Exec("INSERT OR IGNORE INTO matches (url, record) VALUES (?, ?)", job.URL, string(raw))
	if err != nil {
		return fmt.Errorf("recording %s: %w", job.URL, err)
	}
	return nil
}

// Persist is a no-op; every Record is already durable.
func (s *SQLiteStore) Persist() error { return nil }

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
