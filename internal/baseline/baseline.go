// Package baseline persists match-analysis verdicts between runs so that a
// project can land matchck incrementally: existing findings are recorded
// once and only new findings fail subsequent runs.
package baseline

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Verdict is one recorded finding: a diagnostic code for one match of one
// fixture file.
type Verdict struct {
	Fixture string
	Match   string
	Code    string
	Detail  string
}

// Key identifies a verdict independent of its detail text, which may change
// across runs without the finding itself changing.
func (v Verdict) Key() string {
	return v.Fixture + "\x00" + v.Match + "\x00" + v.Code
}

// Store is a verdict history backed by a single sqlite file.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS verdicts (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	fixture    TEXT NOT NULL,
	match_name TEXT NOT NULL,
	code       TEXT NOT NULL,
	detail     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS verdicts_by_run ON verdicts(run_id);
`

// Open opens or creates a baseline store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open baseline %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init baseline %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the verdicts of one full analysis run and returns the
// run's id.
func (s *Store) RecordRun(verdicts []Verdict) (string, error) {
	id := uuid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO runs(id, created_at) VALUES(?, ?)",
		id, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO verdicts(run_id, fixture, match_name, code, detail) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for _, v := range verdicts {
		if _, err := stmt.Exec(id, v.Fixture, v.Match, v.Code, v.Detail); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LatestRun returns the most recent run id, or ok=false for an empty store.
func (s *Store) LatestRun() (string, bool, error) {
	var id string
	err := s.db.QueryRow(
		"SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// RunVerdicts loads all verdicts of one run.
func (s *Store) RunVerdicts(runID string) ([]Verdict, error) {
	rows, err := s.db.Query(
		"SELECT fixture, match_name, code, detail FROM verdicts WHERE run_id = ?", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Verdict
	for rows.Next() {
		var v Verdict
		if err := rows.Scan(&v.Fixture, &v.Match, &v.Code, &v.Detail); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// NewFindings reports the verdicts not present in the latest recorded run.
// With an empty store every verdict is new.
func (s *Store) NewFindings(verdicts []Verdict) ([]Verdict, error) {
	latest, ok, err := s.LatestRun()
	if err != nil {
		return nil, err
	}
	if !ok {
		return verdicts, nil
	}
	known, err := s.RunVerdicts(latest)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(known))
	for _, v := range known {
		seen[v.Key()] = true
	}
	var out []Verdict
	for _, v := range verdicts {
		if !seen[v.Key()] {
			out = append(out, v)
		}
	}
	return out, nil
}
