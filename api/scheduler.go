/*
scheduler.go - Background re-audit sweeper

PURPOSE:
  Periodically re-audits every stored roster and records one audit run per
  roster, so the audit history shows how compliance drifts as rosters are
  edited.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Audits rosters concurrently through an errgroup bounded by Concurrency
  - A failing roster records a run with Err set and does not stop the sweep
  - Stop waits for the in-flight sweep to finish

CONFIGURATION:
  - Interval:    How often to sweep (default: 1 hour)
  - Concurrency: Rosters audited in parallel (default: 4)
  - Enabled:     Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewAuditSweeper(store, logger, opts)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: AuditRoster endpoint (manual audit, also recorded)
  - roster/store.go: AuditRun
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/roster-engine/roster"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AuditSweeper re-audits stored rosters on a ticker.
type AuditSweeper struct {
	Store       roster.SnapshotStore
	Logger      *zap.Logger
	Options     roster.AuditOptions
	Interval    time.Duration
	Concurrency int
	Enabled     bool

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewAuditSweeper creates a new sweeper.
func NewAuditSweeper(store roster.SnapshotStore, logger *zap.Logger, opts roster.AuditOptions) *AuditSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditSweeper{
		Store:       store,
		Logger:      logger.Named("sweeper"),
		Options:     opts,
		Interval:    time.Hour,
		Concurrency: 4,
		Enabled:     true,
		now:         time.Now,
	}
}

// Start begins the sweeper. It sweeps once immediately.
func (s *AuditSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)

	s.Logger.Info("started", zap.Duration("interval", s.Interval), zap.Int("concurrency", s.Concurrency))
}

// Stop stops the sweeper and waits for the current sweep.
func (s *AuditSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.Logger.Info("stopped")
}

func (s *AuditSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *AuditSweeper) sweep(ctx context.Context) {
	if _, err := s.RunNow(ctx); err != nil && ctx.Err() == nil {
		s.Logger.Error("sweep failed", zap.Error(err))
	}
}

// RunNow audits every stored roster once and returns the recorded runs in
// roster order.
func (s *AuditSweeper) RunNow(ctx context.Context) ([]roster.AuditRun, error) {
	rosters, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}

	runs := make([]roster.AuditRun, len(rosters))
	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}

	for i, stored := range rosters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run := s.auditOne(stored)
			if err := s.Store.RecordAuditRun(gctx, run); err != nil {
				return fmt.Errorf("failed to record run for %s: %w", stored.ID, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, run := range runs {
		if run.Err != "" {
			failed++
		}
	}
	s.Logger.Info("sweep complete", zap.Int("rosters", len(runs)), zap.Int("failed", failed))
	return runs, nil
}

func (s *AuditSweeper) auditOne(stored roster.StoredRoster) roster.AuditRun {
	ranAt := s.now().UTC()
	report, err := roster.Audit(stored.Snapshot, s.Options)
	if err != nil {
		s.Logger.Warn("audit failed", zap.String("roster_id", stored.ID), zap.Error(err))
		return roster.AuditRun{ID: uuid.NewString(), RosterID: stored.ID, RanAt: ranAt, Err: err.Error()}
	}

	run := roster.NewAuditRun(uuid.NewString(), stored.ID, ranAt, report)
	s.Logger.Debug("audited",
		zap.String("roster_id", stored.ID),
		zap.Int("critical", run.Critical),
		zap.Int("legal", run.Legal),
		zap.Int("warnings", run.Warnings),
	)
	return run
}
