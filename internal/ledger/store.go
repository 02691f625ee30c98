// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records every textract run and the files it processed in a
// SQLite database. The ledger backs the end-of-run report, the history
// command, and incremental runs that skip unchanged inputs.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/textract/pkg/types"
)

const (
	defaultPath  = ".textract/ledger.db"
	defaultLimit = 50
)

// Store manages the ledger database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one invocation of textract.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	Root       string    `json:"root" yaml:"root"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Processed  int       `json:"processed" yaml:"processed"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// Open opens or creates the ledger database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.LedgerConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			digest TEXT,
			pages INTEGER,
			chars INTEGER,
			output_path TEXT,
			error TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_path ON files(path)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_files_status ON files(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run rooted at root and returns it.
func (s *Store) BeginRun(ctx context.Context, root string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Root, formatTime(run.StartedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// Record appends a file outcome to the run.
func (s *Store) Record(ctx context.Context, runID string, rec types.FileRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (run_id, path, kind, status, digest, pages, chars, output_path, error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Path, string(rec.Kind), string(rec.Status), rec.Digest,
		rec.Pages, rec.Chars, rec.OutputPath, rec.Error, formatTime(rec.RecordedAt.UTC()),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Path, err)
	}
	return nil
}

// FinishRun stores the final counts and completion time of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, skipped = ?, failed = ? WHERE id = ?`,
		formatTime(finished.UTC()), run.Processed, run.Skipped, run.Failed, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing run %s: no such run", run.ID)
	}
	return nil
}

// LastDigest returns the digest of the most recent successful record for
// path. ok is false when the path was never processed successfully.
func (s *Store) LastDigest(ctx context.Context, path string) (digest string, ok bool, err error) {
	var d sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT digest FROM files WHERE path = ? AND status = ?
		 ORDER BY rowid DESC LIMIT 1`,
		path, string(types.StatusProcessed),
	).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up %s: %w", path, err)
	}
	return d.String, d.Valid && d.String != "", nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, processed, skipped, failed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Root, &started, &finished, &r.Processed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
