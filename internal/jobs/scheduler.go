package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the digest on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	digest *Digest
	logger *slog.Logger
}

// NewScheduler creates a scheduler for digest.
func NewScheduler(digest *Digest, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		digest: digest,
		logger: logger,
	}
}

// Start registers the digest under the standard five-field schedule and
// starts the cron loop. Runs use ctx, so cancelling it aborts a run in
// progress.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.digest.Run(ctx); err != nil {
			s.logger.Warn("Scheduled digest failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Digest scheduler started", "schedule", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Digest scheduler stopped")
}
