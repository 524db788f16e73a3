/*
Package sqlite provides a SQLite-backed implementation of roster.SnapshotStore.

PURPOSE:
  Keeps named roster snapshots and the audit history written by the
  re-audit sweeper. The snapshot itself is stored as JSON text in the
  factory schema; the engine never sees SQL.

KEY TABLES:
  rosters:    One row per stored roster (snapshot_json + metadata)
  audit_runs: Append-only audit history, one row per (roster, run)

INDEXES:
  - idx_audit_runs_roster: History lookups per roster, newest first

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The sweeper audits in parallel but
  writes its runs through this lock.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the sweeper's writes.

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - roster/store.go: Interface definition
  - roster/store/memory.go: In-memory implementation for testing
  - factory/snapshot.go: snapshot_json schema
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/roster"
)

// Store implements roster.SnapshotStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.SnapshotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		snapshot_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Audit history (append-only)
	CREATE TABLE IF NOT EXISTS audit_runs (
		id TEXT PRIMARY KEY,
		roster_id TEXT NOT NULL,
		ran_at TEXT NOT NULL,
		critical INTEGER NOT NULL DEFAULT 0,
		legal INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_runs_roster
		ON audit_runs(roster_id, ran_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROSTERS
// =============================================================================

// Save inserts or replaces a roster. created_at survives replacement.
func (s *Store) Save(ctx context.Context, r roster.StoredRoster) error {
	if r.Snapshot == nil {
		return roster.ErrNilSnapshot
	}
	data, err := factory.EncodeJSON(r.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rosters (id, name, snapshot_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.Name, string(data), formatTime(created), formatTime(now),
	)
	return err
}

// Get retrieves a roster by ID.
func (s *Store) Get(ctx context.Context, id string) (*roster.StoredRoster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, snapshot_json, created_at, updated_at FROM rosters WHERE id = ?",
		id,
	)
	r, err := scanRoster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, roster.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns all rosters ordered by creation time, then id.
func (s *Store) List(ctx context.Context) ([]roster.StoredRoster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, snapshot_json, created_at, updated_at FROM rosters ORDER BY created_at, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.StoredRoster
	for rows.Next() {
		r, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Delete removes a roster. Its audit history is kept.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM rosters WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return roster.ErrSnapshotNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoster(row scanner) (*roster.StoredRoster, error) {
	var r roster.StoredRoster
	var snapshotJSON, createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.Name, &snapshotJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	snap, err := factory.ParseJSON([]byte(snapshotJSON))
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", r.ID, err)
	}
	r.Snapshot = snap
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

// =============================================================================
// AUDIT RUNS
// =============================================================================

// RecordAuditRun appends a run to the history.
func (s *Store) RecordAuditRun(ctx context.Context, run roster.AuditRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO audit_runs (id, roster_id, ran_at, critical, legal, warnings, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.RosterID, formatTime(run.RanAt),
		run.Critical, run.Legal, run.Warnings, nullString(run.Err),
	)
	return err
}

// ListAuditRuns returns runs newest first. Empty rosterID lists all.
func (s *Store) ListAuditRuns(ctx context.Context, rosterID string) ([]roster.AuditRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var query string
	var args []any

	if rosterID != "" {
		query = `
			SELECT id, roster_id, ran_at, critical, legal, warnings, error
			FROM audit_runs
			WHERE roster_id = ?
			ORDER BY ran_at DESC, rowid DESC
		`
		args = []any{rosterID}
	} else {
		query = `
			SELECT id, roster_id, ran_at, critical, legal, warnings, error
			FROM audit_runs
			ORDER BY ran_at DESC, rowid DESC
		`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []roster.AuditRun
	for rows.Next() {
		var run roster.AuditRun
		var ranAt string
		var runErr sql.NullString
		if err := rows.Scan(
			&run.ID, &run.RosterID, &ranAt,
			&run.Critical, &run.Legal, &run.Warnings, &runErr,
		); err != nil {
			return nil, err
		}
		run.RanAt = parseTime(ranAt)
		run.Err = runErr.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Helper functions

// Fixed-width timestamps so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
