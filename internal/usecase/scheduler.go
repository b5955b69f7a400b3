package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// SchedulerHandle owns the recurring nightly job as an explicit resource
// with a create/replace/stop lifecycle. Whoever holds the handle can stop
// or reschedule the job; there is no module-level singleton.
type SchedulerHandle struct {
	driver  ports.Scheduler
	crawler *Crawler
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	spec    string
}

// NewSchedulerHandle wires the cron driver with the crawler.
func NewSchedulerHandle(driver ports.Scheduler, crawler *Crawler, logger *slog.Logger) *SchedulerHandle {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchedulerHandle{driver: driver, crawler: crawler, logger: logger}
}

// Start registers the nightly crawl under the given cron spec. Starting an
// already-running handle is a no-op.
func (h *SchedulerHandle) Start(ctx context.Context, spec string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running || h.driver == nil || h.crawler == nil {
		return nil
	}

	job := func(trigger time.Time) {
		h.logger.Info("scheduled crawl triggered", "at", trigger)
		if _, err := h.crawler.Run(ctx, NightlyOptions()); err != nil {
			h.logger.Error("scheduled crawl failed", "error", err)
		}
	}

	if err := h.driver.Start(ctx, spec, job); err != nil {
		return err
	}
	h.running = true
	h.spec = spec
	return nil
}

// Replace stops the current schedule and installs a new cron spec.
func (h *SchedulerHandle) Replace(ctx context.Context, spec string) error {
	if err := h.Stop(ctx); err != nil {
		return err
	}
	return h.Start(ctx, spec)
}

// Stop tears down the underlying scheduler. Safe to call when idle.
func (h *SchedulerHandle) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running || h.driver == nil {
		return nil
	}
	if err := h.driver.Stop(ctx); err != nil {
		return err
	}
	h.running = false
	return nil
}

// Spec reports the active cron expression, empty when stopped.
func (h *SchedulerHandle) Spec() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return ""
	}
	return h.spec
}
