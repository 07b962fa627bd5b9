// Package schedule runs the report job on the configured cadence using a
// cron scheduler: daily, weekly on Mondays, or monthly on the 1st, at a
// fixed time of day.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/alhadhrami/bizreport/internal/config"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// Job is one scheduled report run. Errors are logged, not fatal: a failed
// run must not stop future runs.
type Job func(ctx context.Context) error

// CronSpec translates a frequency and "HH:MM" time of day into a cron
// expression.
func CronSpec(frequency, timeOfDay string) (string, error) {
	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return "", err
	}

	switch frequency {
	case config.FrequencyDaily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case config.FrequencyWeekly:
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil
	case config.FrequencyMonthly:
		return fmt.Sprintf("%d %d 1 * *", minute, hour), nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", bizreport.ErrInvalidConfig, frequency)
}

func parseTimeOfDay(value string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(value, ":")
	if ok {
		hour, err = strconv.Atoi(hh)
		if err == nil {
			minute, err = strconv.Atoi(mm)
		}
	}
	if !ok || err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: time of day must be HH:MM (24-hour), got %q", bizreport.ErrInvalidConfig, value)
	}
	return hour, minute, nil
}

// Scheduler drives recurring report runs.
type Scheduler struct {
	cron   *cron.Cron
	logger bizreport.Logger
}

// New builds a scheduler for the given cadence. The job runs with a
// background context; skip-if-still-running semantics guard against a
// slow run overlapping the next tick.
func New(frequency, timeOfDay string, job Job, logger bizreport.Logger) (*Scheduler, error) {
	spec, err := CronSpec(frequency, timeOfDay)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DiscardLogger),
	))

	_, err = c.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil {
			if logger != nil {
				logger.Error("scheduled report run failed: %v", err)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("registering schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled. In-flight
// jobs are allowed to finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
}

// NextRun reports when the next job would fire. Zero time before Start.
func (s *Scheduler) NextRun() (next string) {
	entries := s.cron.Entries()
	if len(entries) == 0 || entries[0].Next.IsZero() {
		return ""
	}
	return entries[0].Next.Format("2006-01-02 15:04:05")
}
