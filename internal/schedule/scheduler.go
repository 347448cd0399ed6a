// Package schedule runs cleanup passes on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
)

// Scheduler triggers janitor runs at cron intervals. A tick that arrives
// while the previous run is still going is skipped: runs never overlap
// within the process.
type Scheduler struct {
	jan    *janitor.Janitor
	spec   string
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	busy    atomic.Bool
	running bool
}

// New creates a scheduler for the given cron expression, e.g. "0 3 * * *"
// for daily at 3 AM.
func New(jan *janitor.Janitor, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		jan:    jan,
		spec:   spec,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start validates the expression and begins scheduling. It returns
// immediately; Stop (or context cancellation) ends it.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" {
		return fmt.Errorf("empty cron schedule")
	}
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("cleanup scheduler started", zap.String("schedule", s.spec))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.busy.Store(false)

	report, err := s.jan.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled run finished",
		zap.String("run_id", report.RunID),
		zap.Int("candidates", report.Candidates),
		zap.Int("deleted", report.Deleted))
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cleanup scheduler stopped")
	}
}
