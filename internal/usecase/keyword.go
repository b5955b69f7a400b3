package usecase

import (
	"context"
	"fmt"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/normalize"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/selection"
)

// processKeywordGuarded is the failure boundary of one keyword: whatever
// happens inside, the caller gets exactly one terminal outcome and the
// observers get exactly one terminal event.
func (c *Crawler) processKeywordGuarded(ctx context.Context, rp runParams, category domain.Category, keyword domain.Keyword) (outcome domain.KeywordOutcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("keyword processing panicked", "keyword", keyword.Text, "panic", r)
			rp.emit(keywordEvent(category, keyword, domain.StateError, fmt.Sprint(r)))
			outcome = domain.Absent(keyword.Text, fmt.Sprintf("panic: %v", r))
		}
	}()
	return c.processKeyword(ctx, rp, category, keyword)
}

func (c *Crawler) processKeyword(ctx context.Context, rp runParams, category domain.Category, keyword domain.Keyword) domain.KeywordOutcome {
	rp.emit(keywordEvent(category, keyword, domain.StateStarted, ""))

	// Fixed pacing before every search-API call.
	if err := c.pacer.Wait(ctx); err != nil {
		rp.emit(keywordEvent(category, keyword, domain.StateError, err.Error()))
		return domain.Absent(keyword.Text, err.Error())
	}

	hits, err := c.search.Search(ctx, keyword.Text)
	if err != nil {
		c.logger.Warn("search failed", "keyword", keyword.Text, "error", err)
		rp.emit(keywordEvent(category, keyword, domain.StateError, err.Error()))
		return domain.Absent(keyword.Text, err.Error())
	}

	candidates := c.filterHits(hits, rp, keyword.Text)

	found := keywordEvent(category, keyword, domain.StateFound, "")
	found.Count = len(candidates)
	rp.emit(found)

	if len(candidates) == 0 {
		rp.emit(keywordCompleted(category, keyword, false, selection.ReasonNoArticles))
		return domain.Absent(keyword.Text, selection.ReasonNoArticles)
	}

	selected, reason := c.selector.Select(ctx, candidates, rp.policy)
	if selected == nil {
		if reason == "" {
			reason = selection.ReasonNoSelection
		}
		rp.emit(keywordCompleted(category, keyword, false, reason))
		return domain.Absent(keyword.Text, reason)
	}

	title := normalize.CleanHeadline(normalize.DecodeEntities(normalize.StripHighlightMarkup(selected.Title)))
	body := normalize.DecodeEntities(normalize.StripHighlightMarkup(selected.Body))

	selectedEvent := keywordEvent(category, keyword, domain.StateSelected, "")
	selectedEvent.Title = title
	rp.emit(selectedEvent)
	rp.emit(keywordEvent(category, keyword, domain.StateSummarizing, ""))

	summary := c.summarizeHit(ctx, selected.SourceURL, body, keyword.Text)

	article := domain.Article{
		CategoryID:  category.ID,
		Keyword:     &keyword.Text,
		Title:       title,
		Summary:     summary,
		SourceURL:   selected.SourceURL,
		PublishedAt: selected.PublishedAt,
		CrawledAt:   rp.crawledAt,
	}

	saved, err := c.store.CreateArticle(ctx, article)
	if err != nil {
		c.logger.Error("persist article failed", "keyword", keyword.Text, "error", err)
		rp.emit(keywordEvent(category, keyword, domain.StateError, err.Error()))
		return domain.Absent(keyword.Text, fmt.Sprintf("save failed: %v", err))
	}

	rp.emit(keywordCompleted(category, keyword, true, ""))
	return domain.KeywordOutcome{Keyword: keyword.Text, Article: &saved}
}

// filterHits applies the recency window and title relevance to raw hits.
// Titles keep their markup here; normalization for display and persistence
// happens after selection.
func (c *Crawler) filterHits(hits []domain.SearchHit, rp runParams, keyword string) []domain.SearchHit {
	kept := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if !selection.WithinWindow(hit.PublishedAt, rp.ref, rp.windowDays) {
			continue
		}
		if rp.bounded && hit.PublishedAt.After(rp.crawledAt.AddDate(0, 0, 1)) {
			continue
		}
		if !selection.MatchesKeyword(hit.Title, keyword) {
			continue
		}
		kept = append(kept, hit)
	}
	return kept
}

// summarizeHit runs the summarizer over the fullest body text available.
// Summarization failure is non-fatal: the article is persisted with an
// empty summary rather than dropping the keyword.
func (c *Crawler) summarizeHit(ctx context.Context, url, snippet, keyword string) string {
	body := snippet
	if c.content != nil && url != "" {
		if full, err := c.content.Extract(ctx, url); err != nil {
			c.logger.Debug("full-text extraction failed, summarizing snippet", "keyword", keyword, "error", err)
		} else if len(full) > len(snippet) {
			body = full
		}
	}

	summary, err := c.summarizer.Summarize(ctx, body)
	if err != nil {
		c.logger.Warn("summarization failed, persisting empty summary", "keyword", keyword, "error", err)
		return ""
	}
	return summary
}

func keywordEvent(category domain.Category, keyword domain.Keyword, state domain.ProgressState, reason string) domain.ProgressEvent {
	return domain.ProgressEvent{
		Stage:        domain.StageKeyword,
		State:        state,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Keyword:      keyword.Text,
		Reason:       reason,
		Success:      state != domain.StateError,
	}
}

func keywordCompleted(category domain.Category, keyword domain.Keyword, success bool, reason string) domain.ProgressEvent {
	event := keywordEvent(category, keyword, domain.StateCompleted, reason)
	event.Success = success
	return event
}
