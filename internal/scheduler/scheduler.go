// Package scheduler drives the periodic reconciliation cycles. It is a
// single cooperative loop: run the job, wait until the next cycle time,
// repeat. The wait is chunked so cancellation and "run now" requests are
// honored within about a second instead of after a multi-hour sleep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

// pollGranularity is how often the waiting loop re-checks for cancellation,
// a RunNow wake-up, or the deadline having passed.
const pollGranularity = time.Second

// Job is one reconciliation cycle. It must return promptly once ctx is
// cancelled.
type Job func(ctx context.Context)

// Scheduler runs a Job on a fixed interval or, when a cron expression is
// given, on the expression's occurrences.
type Scheduler struct {
	interval time.Duration
	cron     string
	job      Job
	runNow   chan struct{}
	poll     time.Duration
}

// New validates the schedule and returns a Scheduler. A non-empty cron
// expression takes precedence over the interval.
func New(interval time.Duration, cronExpr string, job Job) (*Scheduler, error) {
	if cronExpr != "" && !gronx.New().IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid cron expression %q", cronExpr)
	}
	if cronExpr == "" && interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return &Scheduler{
		interval: interval,
		cron:     cronExpr,
		job:      job,
		runNow:   make(chan struct{}, 1),
		poll:     pollGranularity,
	}, nil
}

// Run executes the job immediately, then repeats on schedule until ctx is
// cancelled. It blocks; background modes call it on its own goroutine when
// a UI loop owns the main one.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.job(ctx)
		if !s.wait(ctx, s.next(time.Now())) {
			return
		}
	}
}

// RunNow wakes the loop for an immediate cycle. Fire-and-forget: a request
// arriving while a cycle is already pending is collapsed into it.
func (s *Scheduler) RunNow() {
	select {
	case s.runNow <- struct{}{}:
	default:
	}
}

func (s *Scheduler) next(now time.Time) time.Time {
	if s.cron != "" {
		if t, err := gronx.NextTickAfter(s.cron, now, false); err == nil {
			return t
		}
	}
	return now.Add(s.interval)
}

// wait sleeps until deadline, a RunNow wake-up, or cancellation. Returns
// false only when ctx was cancelled.
func (s *Scheduler) wait(ctx context.Context, deadline time.Time) bool {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.runNow:
			return true
		case <-ticker.C:
			if !time.Now().Before(deadline) {
				return true
			}
		}
	}
}
