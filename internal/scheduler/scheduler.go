package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one full search cycle. Satisfied by the agent.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler owns the main loop: runs one search cycle immediately, then ticks
// on the configured interval until the context is cancelled.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the given runner at the interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful
// shutdown). A failed cycle is logged and the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("search cycle failed", "error", err)
	}
}
