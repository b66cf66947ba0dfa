// Package scheduler runs periodic rebuilds on top of gocron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// Scheduler wraps a gocron scheduler. Jobs never overlap with themselves: a
// tick that fires while the previous run is still going is skipped.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", logfields.Count(len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs fn every interval and returns the job ID.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, fn func(ctx context.Context)) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive, got %s", interval)
	}
	return s.add(name, gocron.DurationJob(interval), fn)
}

// ScheduleCron runs fn on a standard five-field cron expression.
func (s *Scheduler) ScheduleCron(name, expr string, fn func(ctx context.Context)) (string, error) {
	return s.add(name, gocron.CronJob(expr, false), fn)
}

func (s *Scheduler) add(name string, def gocron.JobDefinition, fn func(ctx context.Context)) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func(ctx context.Context) {
			slog.Info("Executing scheduled job", slog.String("job", name))
			fn(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create job %s: %w", name, err)
	}
	return job.ID().String(), nil
}
