// SPDX-License-Identifier: MIT

// Package store persists scan run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)

	"github.com/campuslib/mvol-validate/internal/validate"
)

// Run is a persisted scan summary.
type Run struct {
	ID          string    `json:"id"`
	Root        string    `json:"root"`
	Chunk       string    `json:"chunk"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Directories int       `json:"directories"`
	Findings    int       `json:"findings"`
	Status      string    `json:"status"` // clean | findings | error
	Error       string    `json:"error,omitempty"`
}

// Store provides SQLite persistence for scan history.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite store and runs migrations. WAL mode and a
// busy timeout keep concurrent daemon reads from tripping over writes.
func NewStore(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		chunk TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		directories INTEGER NOT NULL DEFAULT 0,
		findings INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL CHECK(status IN ('clean', 'findings', 'error')),
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS findings (
		run_id TEXT NOT NULL REFERENCES runs(id),
		identifier TEXT NOT NULL,
		rule TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists a run summary and its findings in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, findings []validate.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, root, chunk, started_at, finished_at, directories, findings, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Chunk,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Directories, run.Findings, run.Status, run.Error)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range findings {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO findings (run_id, identifier, rule, path, message)
		VALUES (?, ?, ?, ?, ?)`,
			run.ID, f.Identifier, string(f.Rule), f.Path, f.Message); err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, root, chunk, started_at, finished_at, directories, findings, status, error
	FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Root, &r.Chunk, &started, &finished,
			&r.Directories, &r.Findings, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, root, chunk, started_at, finished_at, directories, findings, status, error
	FROM runs WHERE id = ?`, id)

	var r Run
	var started, finished string
	if err := row.Scan(&r.ID, &r.Root, &r.Chunk, &started, &finished,
		&r.Directories, &r.Findings, &r.Status, &r.Error); err != nil {
		return nil, err
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &r, nil
}

// FindingsForRun returns the findings recorded for a run.
func (s *Store) FindingsForRun(ctx context.Context, runID string) ([]validate.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT identifier, rule, path, message FROM findings WHERE run_id = ? ORDER BY identifier, rule`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var findings []validate.Finding
	for rows.Next() {
		var f validate.Finding
		var rule string
		if err := rows.Scan(&f.Identifier, &rule, &f.Path, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Rule = validate.Rule(rule)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}
