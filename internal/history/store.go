package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelsync/internal/reconcile"
)

// Run is one user's row from a recorded sync run.
type Run struct {
	RunID        string
	Username     string
	Watchlist    int
	Available    int
	Missing      int
	Undiscovered int
	RecordedAt   time.Time
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id       TEXT NOT NULL,
    username     TEXT NOT NULL,
    watchlist    INTEGER NOT NULL,
    available    INTEGER NOT NULL,
    missing      INTEGER NOT NULL,
    undiscovered INTEGER NOT NULL,
    recorded_at  TEXT NOT NULL,
    PRIMARY KEY (run_id, username)
);
CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs (recorded_at DESC);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, path: filepath.Clean(path)}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores one row per result under a fresh run ID and returns it.
func (s *Store) RecordRun(ctx context.Context, results []reconcile.Result) (string, error) {
	runID := uuid.NewString()
	// Nanosecond precision keeps back-to-back runs ordered.
	recordedAt := time.Now().UTC().Format(time.RFC3339Nano)

	for _, result := range results {
		err := s.execWithRetry(ctx,
			`INSERT INTO runs (run_id, username, watchlist, available, missing, undiscovered, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, result.Username,
			len(result.Watchlist), len(result.Available), len(result.Missing), len(result.Undiscovered),
			recordedAt)
		if err != nil {
			return "", fmt.Errorf("record run row for %s: %w", result.Username, err)
		}
	}
	return runID, nil
}

// Recent returns the newest rows, most recent first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, username, watchlist, available, missing, undiscovered, recorded_at
		 FROM runs ORDER BY recorded_at DESC, username ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var recordedAt string
		if err := rows.Scan(&run.RunID, &run.Username, &run.Watchlist, &run.Available,
			&run.Missing, &run.Undiscovered, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastForUser returns the most recent row for a user, or false when the user
// has no recorded runs.
func (s *Store) LastForUser(ctx context.Context, username string) (Run, bool, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, username, watchlist, available, missing, undiscovered, recorded_at
		 FROM runs WHERE username = ? ORDER BY recorded_at DESC LIMIT 1`, username)

	var run Run
	var recordedAt string
	err := row.Scan(&run.RunID, &run.Username, &run.Watchlist, &run.Available,
		&run.Missing, &run.Undiscovered, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query last run for %s: %w", username, err)
	}
	run.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
	return run, true, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
