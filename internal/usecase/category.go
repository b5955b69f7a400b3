package usecase

import (
	"context"
	"sync"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

// processCategory partitions a category's keywords into fixed-size batches.
// Keywords inside a batch run concurrently with isolated failures: one
// keyword's error never cancels its siblings, and every slot ends with an
// outcome. A fixed delay between batches bounds the aggregate request rate.
func (c *Crawler) processCategory(ctx context.Context, rp runParams, category domain.Category) domain.CategoryResult {
	if len(category.Keywords) == 0 {
		rp.emit(domain.ProgressEvent{
			Stage: domain.StageCategory, State: domain.StateSkipped,
			CategoryID: category.ID, CategoryName: category.Name,
			Reason: "no keywords configured", Success: true,
		})
		return domain.CategoryResult{Category: category, Status: domain.CategorySkipped}
	}

	rp.emit(domain.ProgressEvent{
		Stage: domain.StageCategory, State: domain.StateStarted,
		CategoryID: category.ID, CategoryName: category.Name,
		Total: len(category.Keywords), Success: true,
	})

	outcomes := make([]domain.KeywordOutcome, len(category.Keywords))
	for start := 0; start < len(category.Keywords); start += c.opts.BatchSize {
		end := start + c.opts.BatchSize
		if end > len(category.Keywords) {
			end = len(category.Keywords)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = c.processKeywordGuarded(ctx, rp, category, category.Keywords[i])
			}(i)
		}
		wg.Wait()

		if end < len(category.Keywords) {
			if err := sleepCtx(ctx, c.opts.BatchDelay); err != nil {
				// Run cancelled mid-category; mark the untouched keywords.
				for i := end; i < len(category.Keywords); i++ {
					outcomes[i] = domain.Absent(category.Keywords[i].Text, "run cancelled")
				}
				break
			}
		}
	}

	result := domain.CategoryResult{Category: category, Outcomes: outcomes}
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
			result.Articles = append(result.Articles, *outcome.Article)
		}
	}

	switch {
	case succeeded == 0:
		result.Status = domain.CategoryNoNews
	case succeeded < len(outcomes):
		result.Status = domain.CategoryPartial
	default:
		result.Status = domain.CategoryComplete
	}

	event := domain.ProgressEvent{
		Stage: domain.StageCategory, State: domain.StateCompleted,
		CategoryID: category.ID, CategoryName: category.Name,
		Succeeded: succeeded, Failed: len(outcomes) - succeeded,
		Total: len(outcomes), Success: succeeded > 0,
	}
	if result.Status == domain.CategoryNoNews {
		event.Reason = "no news"
	}
	rp.emit(event)

	return result
}
