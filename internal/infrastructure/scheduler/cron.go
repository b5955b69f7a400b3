// Package scheduler drives the recurring nightly crawl with cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// CronScheduler implements ports.Scheduler on robfig/cron.
type CronScheduler struct {
	location *time.Location

	mu     sync.Mutex
	runner *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler binds the scheduler to a time zone so cron expressions
// fire on the crawl's logical-date clock, not the host's.
func NewCronScheduler(location *time.Location) *CronScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{location: location}
}

// Start registers the job under the cron spec and begins running it.
// Starting a running scheduler is a no-op.
func (c *CronScheduler) Start(_ context.Context, spec string, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runner != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(c.location))
	if _, err := runner.AddFunc(spec, func() { job(time.Now().In(c.location)) }); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	runner.Start()
	c.runner = runner
	return nil
}

// Stop halts the cron runner, waiting for an in-flight job or the context,
// whichever ends first.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.runner
	c.runner = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}

	select {
	case <-runner.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
