// Package scheduler runs the monthly bulk statement generation. The cron
// expression fires at midnight on the first of every month, right after the
// previous month closes.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SscSPs/bank_statements_svc/internal/adapters/lease"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
)

const (
	monthlySpec = "0 0 1 * *"
	leaseName   = "bank_statements:bulk_generation"
)

// Scheduler owns the cron instance and the overlap guards around the bulk
// run: an in-process mutex for one instance, an optional distributed lease
// for many.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	lease    lease.Lease
	leaseTTL time.Duration
	run      func(ctx context.Context) (total, failed int)

	mu sync.Mutex
}

// New builds a scheduler around the given bulk run. The run callback returns
// how many accounts were processed and how many of those failed.
func New(run func(ctx context.Context) (total, failed int), guard lease.Lease, leaseTTL time.Duration, logger *slog.Logger) *Scheduler {
	if guard == nil {
		guard = lease.Noop{}
	}
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		lease:    guard,
		leaseTTL: leaseTTL,
		run:      run,
	}
}

// Start registers the monthly job and starts the cron loop in its own
// goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(monthlySpec, s.Trigger); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Monthly statement scheduler started", slog.String("spec", monthlySpec))
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Monthly statement scheduler stopped")
}

// Trigger executes one guarded bulk run. A run already in progress, in this
// process or in another lease-holding instance, makes Trigger a no-op.
func (s *Scheduler) Trigger() {
	if !s.mu.TryLock() {
		s.logger.Warn("Bulk generation already running, skipping trigger")
		return
	}
	defer s.mu.Unlock()

	ctx := middleware.ContextWithLogger(context.Background(), s.logger)

	release, ok, err := s.lease.Acquire(ctx, leaseName, s.leaseTTL)
	if err != nil {
		s.logger.Error("Failed to acquire bulk generation lease", slog.String("error", err.Error()))
		return
	}
	if !ok {
		s.logger.Info("Another instance holds the bulk generation lease, skipping run")
		return
	}
	defer release()

	start := time.Now()
	total, failed := s.run(ctx)
	s.logger.Info("Scheduled bulk generation completed",
		slog.Int("total", total),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)),
	)
}
