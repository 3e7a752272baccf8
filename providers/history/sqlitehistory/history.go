package sqlitehistory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// register the pure-Go sqlite driver
	_ "modernc.org/sqlite"

	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/core/structured"
)

// timeLayout is fixed width so that stored timestamps sort chronologically
// as text. Reads use time.RFC3339Nano, which accepts it.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed structured.Recorder.
type Store struct {
	db   *sql.DB
	path string
}

var _ structured.Recorder = (*Store)(nil)

// RunSummary is one row returned by Recent.
type RunSummary struct {
	ID         string
	Label      string
	Shape      parse.Shape
	Succeeded  bool
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
	// LastError is the error of the final attempt, empty on success.
	LastError string
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.configure(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) configure(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		shape TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		attempt_count INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS attempts (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		number INTEGER NOT NULL,
		escalations INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		PRIMARY KEY (run_id, number)
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// RecordRun stores run and its attempts in one transaction.
func (s *Store) RecordRun(ctx context.Context, run structured.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, shape, succeeded, attempt_count, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, run.Label, string(run.Shape), run.Succeeded, len(run.Attempts),
		run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attempts (run_id, number, escalations, outcome, error, prompt, response, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare attempt insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range run.Attempts {
		_, err = stmt.ExecContext(ctx,
			id, a.Number, a.Escalations, string(a.Outcome), a.Error, a.Prompt, a.Response,
			a.StartedAt.UTC().Format(timeLayout), a.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert attempt %d: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.label, r.shape, r.succeeded, r.attempt_count, r.started_at, r.finished_at,
		       COALESCE((SELECT a.error FROM attempts a WHERE a.run_id = r.id ORDER BY a.number DESC LIMIT 1), '')
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs                RunSummary
			shape             string
			started, finished string
		)
		if err := rows.Scan(&rs.ID, &rs.Label, &shape, &rs.Succeeded, &rs.Attempts, &started, &finished, &rs.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rs.Shape = parse.Shape(shape)
		if rs.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("run %s: %w", rs.ID, err)
		}
		if rs.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("run %s: %w", rs.ID, err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Attempts returns the stored attempts of one run in order.
func (s *Store) Attempts(ctx context.Context, runID string) ([]structured.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, escalations, outcome, error, prompt, response, started_at, duration_ms
		FROM attempts WHERE run_id = ? ORDER BY number`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []structured.Attempt
	for rows.Next() {
		var (
			a       structured.Attempt
			outcome string
			started string
			ms      int64
		)
		if err := rows.Scan(&a.Number, &a.Escalations, &outcome, &a.Error, &a.Prompt, &a.Response, &started, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Outcome = structured.Outcome(outcome)
		if a.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("attempt %d: %w", a.Number, err)
		}
		a.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", value, err)
	}
	return t, nil
}
