package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the absence sweep on a cron schedule in the policy time zone.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	policy  *Policy
	logger  *slog.Logger

	Now func() time.Time
}

func NewScheduler(sweeper *Sweeper, policy *Policy, schedule string, logger *slog.Logger) (*Scheduler, error) {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(policy.location()),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper: sweeper,
		policy:  policy,
		logger:  logger,
		Now:     time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.Tick(context.Background()); err != nil {
			s.logger.Error("scheduled absence sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid absence sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Tick sweeps today's date once, synchronously.
func (s *Scheduler) Tick(ctx context.Context) (SweepResult, error) {
	return s.sweeper.Sweep(ctx, s.policy.Date(s.Now()))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("absence sweep scheduled", "next_run", entry.Next)
	}
}

// Stop halts the schedule and waits for a running sweep or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
