package selection

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

const (
	// maxLiveArticles caps how many deduplicated hits the live path scores.
	maxLiveArticles = 20
	// neutralImportance is assigned when the LLM cannot score.
	neutralImportance = 5
	// fallbackSummaryRunes bounds the placeholder summary length.
	fallbackSummaryRunes = 120
)

// LiveRanker serves the live-search path: cross-article deduplication plus
// importance scoring and short summaries for the surviving hits. It shares
// the selector's LLM collaborator but returns a full re-ranked list instead
// of a single pick.
type LiveRanker struct {
	ranker ports.Ranker
	logger *slog.Logger
}

// NewLiveRanker wires the scoring collaborator.
func NewLiveRanker(ranker ports.Ranker, logger *slog.Logger) *LiveRanker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveRanker{ranker: ranker, logger: logger}
}

// AnalyzeAndRank drops near-duplicate titles (first-seen wins), caps the
// survivors, and asks the LLM for importance scores and summaries. When the
// LLM is unavailable every survivor is returned with a truncated-body
// placeholder summary and a neutral score.
func (r *LiveRanker) AnalyzeAndRank(ctx context.Context, hits []domain.SearchHit) []domain.RankedArticle {
	unique := dedupeByTitle(hits)
	if len(unique) > maxLiveArticles {
		unique = unique[:maxLiveArticles]
	}
	if len(unique) == 0 {
		return nil
	}

	scores, err := r.ranker.ScoreArticles(ctx, toCandidates(unique))
	if err != nil {
		r.logger.Warn("scoring call failed, returning neutral ranking", "error", err)
		return neutralRanking(unique)
	}

	ranked := make([]domain.RankedArticle, 0, len(scores))
	for _, score := range scores {
		if score.Index < 0 || score.Index >= len(unique) {
			continue
		}
		ranked = append(ranked, domain.RankedArticle{
			Hit:        unique[score.Index],
			Importance: clampImportance(score.Importance),
			Summary:    strings.TrimSpace(score.Summary),
		})
	}
	if len(ranked) == 0 {
		r.logger.Warn("scoring returned no usable entries, returning neutral ranking")
		return neutralRanking(unique)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	return ranked
}

func neutralRanking(hits []domain.SearchHit) []domain.RankedArticle {
	ranked := make([]domain.RankedArticle, len(hits))
	for i, hit := range hits {
		ranked[i] = domain.RankedArticle{
			Hit:        hit,
			Importance: neutralImportance,
			Summary:    truncateRunes(hit.Body, fallbackSummaryRunes),
		}
	}
	return ranked
}

func clampImportance(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func truncateRunes(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
