// Package history persists harness outcomes to a local SQLite database, so
// that drift in the simulation's noise is visible across invocations.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	recorded_at  TEXT NOT NULL,
	mode         TEXT NOT NULL,
	num_runs     INTEGER NOT NULL,
	success_rate REAL,
	verdict      TEXT,
	details      TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
`

// Record is one persisted harness invocation.
type Record struct {
	ID         string
	RecordedAt time.Time
	// Mode is "test" or "calibrate".
	Mode    string
	NumRuns int
	// SuccessRate is nil for calibrate records.
	SuccessRate *float64
	// Verdict is "PASS" or "FAIL" for test records, empty for calibrate.
	Verdict string
	// Details holds mode-specific JSON (violations, recommended epsilons).
	Details string
}

// Store appends and lists run records.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Append inserts one record, assigning an ID and timestamp when unset.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	if rec.Details == "" {
		rec.Details = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, recorded_at, mode, num_runs, success_rate, verdict, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RecordedAt.Format(time.RFC3339Nano),
		rec.Mode,
		rec.NumRuns,
		rec.SuccessRate,
		rec.Verdict,
		rec.Details,
	)
	if err != nil {
		return fmt.Errorf("append history record: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, mode, num_runs, success_rate, verdict, details
		FROM runs ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			ts   string
			rate sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Mode, &rec.NumRuns, &rate, &rec.Verdict, &rec.Details); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		rec.RecordedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp %q: %w", ts, err)
		}
		if rate.Valid {
			rec.SuccessRate = &rate.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
