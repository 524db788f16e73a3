// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	rosters map[string]roster.StoredRoster
	runs    []roster.AuditRun
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		rosters: make(map[string]roster.StoredRoster),
		now:     time.Now,
	}
}

// Save inserts or replaces a roster, keeping the original CreatedAt.
func (m *Memory) Save(_ context.Context, r roster.StoredRoster) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if existing, ok := m.rosters[r.ID]; ok {
		r.CreatedAt = existing.CreatedAt
	} else if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.rosters[r.ID] = r
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*roster.StoredRoster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rosters[id]
	if !ok {
		return nil, roster.ErrSnapshotNotFound
	}
	return &r, nil
}

func (m *Memory) List(_ context.Context) ([]roster.StoredRoster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]roster.StoredRoster, 0, len(m.rosters))
	for _, r := range m.rosters {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rosters[id]; !ok {
		return roster.ErrSnapshotNotFound
	}
	delete(m.rosters, id)
	return nil
}

// RecordAuditRun appends a run. Append-only.
func (m *Memory) RecordAuditRun(_ context.Context, run roster.AuditRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *Memory) ListAuditRuns(_ context.Context, rosterID string) ([]roster.AuditRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.AuditRun
	for _, run := range m.runs {
		if rosterID == "" || run.RosterID == rosterID {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RanAt.After(out[j].RanAt) })
	return out, nil
}

var _ roster.SnapshotStore = (*Memory)(nil)
