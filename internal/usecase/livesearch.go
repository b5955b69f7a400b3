package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/normalize"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/selection"
)

// LiveSearch is the in-request path: one fetch, recency filter for the
// caller's window, normalization, then cross-article deduplication and
// importance ranking. Nothing is persisted and no batching applies.
func (c *Crawler) LiveSearch(ctx context.Context, query string, windowDays int) ([]domain.RankedArticle, error) {
	if windowDays <= 0 {
		windowDays = c.opts.WindowDays
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	hits, err := c.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("live search %q: %w", query, err)
	}

	now := time.Now().In(c.opts.Location)
	candidates := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if !selection.WithinWindow(hit.PublishedAt, now, windowDays) {
			continue
		}
		hit.Title = normalize.CleanHeadline(normalize.DecodeEntities(normalize.StripHighlightMarkup(hit.Title)))
		hit.Body = normalize.DecodeEntities(normalize.StripHighlightMarkup(hit.Body))
		candidates = append(candidates, hit)
	}

	ranked := c.liveRanker.AnalyzeAndRank(ctx, candidates)
	c.logger.Info("live search ranked", "query", query, "hits", len(hits), "ranked", len(ranked))
	return ranked, nil
}
