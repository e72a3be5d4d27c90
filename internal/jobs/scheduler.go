// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Observer is told about every job run
type Observer interface {
	ObserveJob(name string, err error)
}

// Task is one unit of periodic work
type Task func(ctx context.Context) error

// Scheduler wraps a gocron scheduler with logging
type Scheduler struct {
	sched    gocron.Scheduler
	logger   *slog.Logger
	observer Observer
}

// NewScheduler creates a Scheduler. observer may be nil.
func NewScheduler(logger *slog.Logger, observer Observer) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{sched: sched, logger: logger, observer: observer}, nil
}

// Every registers task to run at a fixed interval. Overlapping runs of the
// same job are skipped.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(name, task) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.logger.Info("job registered", slog.String("job", name), slog.Duration("interval", interval))
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	start := time.Now()
	err := task(context.Background())
	if s.observer != nil {
		s.observer.ObserveJob(name, err)
	}
	if err != nil {
		s.logger.Error("job failed", slog.String("job", name), slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("job completed", slog.String("job", name), slog.Duration("duration", time.Since(start)))
}

// Start begins running registered jobs
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
