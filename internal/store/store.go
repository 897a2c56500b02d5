// Package store persists finished bot runs in a local sqlite file, gob
// values keyed by run ID. A phone bot has no business requiring a
// database server.
package store

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wise-toddler/minesweper-solver/internal/bot"
)

var ErrNotFound = fmt.Errorf("run not found")

// RunRecord is the durable summary of one bot run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	EndedAt    time.Time
	Outcome    bot.Outcome
	Stats      bot.StatsSnapshot
	FailReason string
}

type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	return New(db)
}

func New(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	run_id		TEXT PRIMARY KEY,
	started_at	INTEGER,
	record		BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun inserts a finished run or overwrites a record with the same ID.
func (s *Store) SaveRun(r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO runs (run_id, started_at, record)
VALUES(?, ?, ?)
ON CONFLICT(run_id)
DO UPDATE SET started_at=excluded.started_at, record=excluded.record;`,
		r.RunID, r.StartedAt.UnixMilli(), buf.Bytes())
	return err
}

func (s *Store) GetRun(runID string) (RunRecord, error) {
	var (
		record RunRecord
		blob   []byte
	)
	err := s.db.QueryRow(
		`SELECT record FROM runs WHERE run_id = ?;`, runID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return record, ErrNotFound
	} else if err != nil {
		return record, err
	}
	err = gob.NewDecoder(bytes.NewReader(blob)).Decode(&record)
	return record, err
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT record FROM runs ORDER BY started_at DESC LIMIT ?;`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var record RunRecord
		if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?;`, runID)
	return err
}
