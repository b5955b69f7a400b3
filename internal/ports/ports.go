package ports

import (
	"context"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

// SearchClient queries the external news search API for one keyword. The
// upstream API returns recency-sorted pages; all date and relevance
// filtering happens in the caller.
type SearchClient interface {
	Search(ctx context.Context, keyword string) ([]domain.SearchHit, error)
}

// RankCandidate is the title/body pair handed to LLM ranking calls.
type RankCandidate struct {
	Title string
	Body  string
}

// Ranker asks an LLM which candidates matter. RankImportant returns up to
// topN candidate indices carrying business-change significance.
// ScoreArticles serves the live-search path: importance scores (1-10) plus
// short summaries for every candidate it chose to keep.
type Ranker interface {
	RankImportant(ctx context.Context, candidates []RankCandidate, topN int) ([]int, error)
	ScoreArticles(ctx context.Context, candidates []RankCandidate) ([]domain.ArticleScore, error)
}

// Summarizer produces a short summary of one article body.
type Summarizer interface {
	Summarize(ctx context.Context, body string) (string, error)
}

// ContentFetcher extracts the full article text behind a URL so the
// summarizer sees more than the search snippet. Optional collaborator;
// failures fall back to the snippet.
type ContentFetcher interface {
	Extract(ctx context.Context, url string) (string, error)
}

// ArticleStore persists crawl output. Calls are individually atomic; the
// pipeline requests no cross-call transaction.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error)
	DeleteArticlesForDate(ctx context.Context, date time.Time) error
	LoadCategoriesWithKeywords(ctx context.Context) ([]domain.Category, error)
}

// Notifier delivers the run digest. Best-effort: the orchestrator logs and
// swallows its errors.
type Notifier interface {
	Notify(ctx context.Context, categories []domain.CategoryResult) error
}

// ProgressSink receives pipeline progress events. Implementations must
// never block or propagate failures into the pipeline.
type ProgressSink interface {
	Publish(event domain.ProgressEvent)
}

// Scheduler drives the recurring nightly run.
type Scheduler interface {
	Start(ctx context.Context, spec string, job func(time.Time)) error
	Stop(ctx context.Context) error
}
