/*
store.go - Persistence interface used by the host application

PURPOSE:
  The engine itself never persists anything. The API and the re-audit
  sweeper keep named roster snapshots and an audit history behind this
  interface.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - roster/store/memory.go: In-memory for testing
*/
package roster

import (
	"context"
	"time"
)

// StoredRoster is a snapshot saved under an id.
type StoredRoster struct {
	ID        string
	Name      string
	Snapshot  *Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditRun records the outcome of one audit of a stored roster.
type AuditRun struct {
	ID       string
	RosterID string
	RanAt    time.Time
	Critical int
	Legal    int
	Warnings int // EQUITY, ASSET and WARNING together
	Err      string
}

// NewAuditRun summarizes a report for the audit history.
func NewAuditRun(id, rosterID string, ranAt time.Time, report *AuditReport) AuditRun {
	run := AuditRun{ID: id, RosterID: rosterID, RanAt: ranAt}
	for sev, n := range report.Counts {
		switch sev {
		case SeverityCritical:
			run.Critical += n
		case SeverityLegal:
			run.Legal += n
		default:
			run.Warnings += n
		}
	}
	return run
}

// SnapshotStore persists rosters and audit runs.
type SnapshotStore interface {
	// Save inserts or replaces a roster.
	Save(ctx context.Context, r StoredRoster) error

	// Get returns ErrSnapshotNotFound for unknown ids.
	Get(ctx context.Context, id string) (*StoredRoster, error)

	// List returns all rosters ordered by creation time, then id.
	List(ctx context.Context) ([]StoredRoster, error)

	// Delete returns ErrSnapshotNotFound for unknown ids.
	Delete(ctx context.Context, id string) error

	// RecordAuditRun appends to the audit history.
	RecordAuditRun(ctx context.Context, run AuditRun) error

	// ListAuditRuns returns runs newest first. Empty rosterID lists all.
	ListAuditRuns(ctx context.Context, rosterID string) ([]AuditRun, error)
}
