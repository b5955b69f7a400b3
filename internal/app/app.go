package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/config"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/llm"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/scheduler"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/scrape"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/search"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/storage"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/infrastructure/telegram"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/logging"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/progress"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg         config.Config
	logger      *slog.Logger
	crawler     *usecase.Crawler
	handle      *usecase.SchedulerHandle
	broadcaster *progress.Broadcaster
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}

	broadcaster := progress.NewBroadcaster(baseLogger.With("component", "progress"))
	llmClient := llm.NewOpenAIClient(cfg.LLM, baseLogger.With("component", "llm"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	crawler := usecase.NewCrawler(
		usecase.CrawlerDeps{
			Search:     search.NewClient(cfg.Search),
			Ranker:     llmClient,
			Summarizer: llmClient,
			Content:    scrape.NewExtractor(nil),
			Store:      storage.NewPostgresStore(db),
			Notifier:   notifier,
			Progress:   broadcaster,
			Logger:     baseLogger.With("component", "crawler"),
		},
		usecase.CrawlerOptions{
			WindowDays: cfg.Crawl.WindowDays,
			BatchSize:  cfg.Crawl.BatchSize,
			Location:   cfg.Scheduler.Location(),
			PromoTerms: cfg.Crawl.PromoTerms,
		},
	)

	handle := usecase.NewSchedulerHandle(
		scheduler.NewCronScheduler(cfg.Scheduler.Location()),
		crawler,
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:         cfg,
		logger:      baseLogger,
		crawler:     crawler,
		handle:      handle,
		broadcaster: broadcaster,
	}, nil
}

// Crawler exposes the pipeline for embedding callers (route layer, tests).
func (a *Application) Crawler() *usecase.Crawler {
	return a.crawler
}

// Broadcaster exposes the progress hub for observer attachment.
func (a *Application) Broadcaster() *progress.Broadcaster {
	return a.broadcaster
}

// RunOnce executes a single nightly-style crawl and returns.
func (a *Application) RunOnce(ctx context.Context) error {
	_, err := a.crawler.Run(ctx, usecase.NightlyOptions())
	return err
}

// Backfill rebuilds the archive for one past date.
func (a *Application) Backfill(ctx context.Context, target time.Time) (domain.RunResult, error) {
	return a.crawler.Run(ctx, usecase.BackfillOptions(target))
}

// RunScheduled starts the cron schedule and blocks until the context ends.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.handle.Start(ctx, a.cfg.Scheduler.CronExpression); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.handle.Stop(stopCtx)
}
