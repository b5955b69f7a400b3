// Package usecase implements the crawl orchestration pipeline: keyword
// batching under rate limits, multi-stage filtering, representative-article
// selection, summarization, persistence, and progress reporting.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/selection"
)

const (
	defaultWindowDays    = 3
	defaultBatchSize     = 5
	defaultSearchDelay   = 50 * time.Millisecond
	defaultBatchDelay    = 500 * time.Millisecond
	defaultCategoryDelay = time.Second
)

// CrawlerDeps wires all driven adapters into the orchestration pipeline.
// Search, Ranker, Summarizer, and Store are required; the rest degrade
// gracefully when absent.
type CrawlerDeps struct {
	Search     ports.SearchClient
	Ranker     ports.Ranker
	Summarizer ports.Summarizer
	Content    ports.ContentFetcher
	Store      ports.ArticleStore
	Notifier   ports.Notifier
	Progress   ports.ProgressSink
	Logger     *slog.Logger
}

// CrawlerOptions tunes pacing and windows. Zero values fall back to the
// defaults above.
type CrawlerOptions struct {
	WindowDays    int
	BatchSize     int
	SearchDelay   time.Duration
	BatchDelay    time.Duration
	CategoryDelay time.Duration
	// Location fixes the logical crawl date. The nightly run pins this to
	// UTC+9 so "today" is stable regardless of deployment region.
	Location *time.Location
	// PromoTerms is the injectable promotional blocklist.
	PromoTerms []string
}

// Crawler orchestrates crawl runs and the live-search path.
type Crawler struct {
	search     ports.SearchClient
	summarizer ports.Summarizer
	content    ports.ContentFetcher
	store      ports.ArticleStore
	notifier   ports.Notifier
	progress   ports.ProgressSink
	selector   *selection.Selector
	liveRanker *selection.LiveRanker
	logger     *slog.Logger

	opts CrawlerOptions
	// pacer enforces the small fixed delay before every search-API call.
	pacer *rate.Limiter
}

// NewCrawler constructs the orchestration component.
func NewCrawler(deps CrawlerDeps, opts CrawlerOptions) *Crawler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = defaultWindowDays
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = defaultSearchDelay
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = defaultBatchDelay
	}
	if opts.CategoryDelay <= 0 {
		opts.CategoryDelay = defaultCategoryDelay
	}
	if opts.Location == nil {
		opts.Location = time.FixedZone("KST", 9*60*60)
	}

	promo := selection.NewPromoFilter(opts.PromoTerms)
	return &Crawler{
		search:     deps.Search,
		summarizer: deps.Summarizer,
		content:    deps.Content,
		store:      deps.Store,
		notifier:   deps.Notifier,
		progress:   deps.Progress,
		selector:   selection.NewSelector(deps.Ranker, promo, deps.Logger.With("component", "selector")),
		liveRanker: selection.NewLiveRanker(deps.Ranker, deps.Logger.With("component", "live-ranker")),
		logger:     deps.Logger,
		opts:       opts,
		pacer:      rate.NewLimiter(rate.Every(opts.SearchDelay), 1),
	}
}

// RunOptions parameterizes one run. The nightly crawl and the historical
// backfill share this single pipeline instead of duplicating it.
type RunOptions struct {
	// TargetDate pins the logical crawl date; nil means "now" in the
	// crawler's location.
	TargetDate *time.Time
	// WindowDays overrides the recency window; zero keeps the default.
	WindowDays int
	// Bounded additionally rejects hits published after the target date.
	// Used by backfill, whose window is closed on both ends.
	Bounded bool
	// Policy names the promotional-filter exhaustion behavior.
	Policy selection.ExhaustionPolicy
	// KeepExisting skips the pre-run delete of same-date articles. The
	// default (false) gives idempotent "redo today's crawl" semantics.
	KeepExisting bool
	// Silent disables progress events for this run.
	Silent bool
}

// NightlyOptions is the scheduled nightly configuration: trailing 3-day
// window, drop-on-promotional-exhaustion, progress enabled.
func NightlyOptions() RunOptions {
	return RunOptions{Policy: selection.ExhaustionDropKeyword}
}

// BackfillOptions rebuilds a past date: closed window around the target,
// most-similar fallback on promotional exhaustion, no progress events.
func BackfillOptions(target time.Time) RunOptions {
	return RunOptions{
		TargetDate: &target,
		Bounded:    true,
		Policy:     selection.ExhaustionFallbackSimilar,
		Silent:     true,
	}
}

// runParams is the resolved per-run state shared by every keyword.
type runParams struct {
	ref        time.Time
	crawledAt  time.Time
	windowDays int
	bounded    bool
	policy     selection.ExhaustionPolicy
	sink       ports.ProgressSink
}

func (rp runParams) emit(event domain.ProgressEvent) {
	if rp.sink != nil {
		rp.sink.Publish(event)
	}
}

// Run executes one crawl across all configured categories. Categories are
// processed strictly sequentially with a fixed delay between them;
// concurrency is pushed down to the keyword level only. Per-category
// failures are logged and never abort the run.
func (c *Crawler) Run(ctx context.Context, opts RunOptions) (domain.RunResult, error) {
	started := time.Now()
	rp := c.resolveRun(opts)

	categories, err := c.store.LoadCategoriesWithKeywords(ctx)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("load categories: %w", err)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].DisplayOrder < categories[j].DisplayOrder
	})

	rp.emit(domain.ProgressEvent{
		Stage: domain.StageRun, State: domain.StateStarted,
		Total: len(categories), Success: true,
	})

	// Same-date articles go first so a rerun of the same logical date
	// replaces rather than duplicates. Strictly ordered before any insert.
	if !opts.KeepExisting {
		if err := c.store.DeleteArticlesForDate(ctx, rp.crawledAt); err != nil {
			return domain.RunResult{}, fmt.Errorf("delete articles for %s: %w",
				rp.crawledAt.Format("2006-01-02"), err)
		}
	}

	result := domain.RunResult{CrawledAt: rp.crawledAt}
	for i, category := range categories {
		catResult := c.processCategoryGuarded(ctx, rp, category)
		result.Categories = append(result.Categories, catResult)
		result.Articles = append(result.Articles, catResult.Articles...)

		if i < len(categories)-1 {
			if err := sleepCtx(ctx, c.opts.CategoryDelay); err != nil {
				return result, err
			}
		}
	}

	if c.notifier != nil && len(result.Articles) > 0 {
		if err := c.notifier.Notify(ctx, result.Categories); err != nil {
			c.logger.Warn("notification dispatch failed", "error", err)
		}
	}

	rp.emit(domain.ProgressEvent{
		Stage: domain.StageRun, State: domain.StateCompleted,
		Count: len(result.Articles), Duration: time.Since(started), Success: true,
	})
	c.logger.Info("crawl completed",
		"date", rp.crawledAt.Format("2006-01-02"),
		"categories", len(result.Categories),
		"articles", len(result.Articles),
		"elapsed", time.Since(started))

	return result, nil
}

func (c *Crawler) resolveRun(opts RunOptions) runParams {
	ref := time.Now().In(c.opts.Location)
	if opts.TargetDate != nil {
		ref = opts.TargetDate.In(c.opts.Location)
	}

	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = c.opts.WindowDays
	}

	var sink ports.ProgressSink
	if !opts.Silent {
		sink = c.progress
	}

	y, m, d := ref.Date()
	return runParams{
		ref:        ref,
		crawledAt:  time.Date(y, m, d, 0, 0, 0, 0, c.opts.Location),
		windowDays: windowDays,
		bounded:    opts.Bounded,
		policy:     opts.Policy,
		sink:       sink,
	}
}

// processCategoryGuarded keeps a panicking category from taking down the
// run loop.
func (c *Crawler) processCategoryGuarded(ctx context.Context, rp runParams, category domain.Category) (result domain.CategoryResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("category processing panicked", "category", category.Name, "panic", r)
			result = domain.CategoryResult{Category: category, Status: domain.CategoryNoNews}
			rp.emit(domain.ProgressEvent{
				Stage: domain.StageCategory, State: domain.StateError,
				CategoryID: category.ID, CategoryName: category.Name,
				Reason: fmt.Sprint(r),
			})
		}
	}()
	return c.processCategory(ctx, rp, category)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
