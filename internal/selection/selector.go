package selection

import (
	"context"
	"log/slog"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// Absence reasons surfaced through keyword outcomes and progress events.
const (
	ReasonNoArticles     = "no articles"
	ReasonAllPromotional = "all candidates promotional"
	ReasonNoSelection    = "selection failed"
)

// Selector picks exactly one representative article from a filtered
// candidate set: LLM-assisted ranking first, deterministic similarity
// fallback when the LLM is unavailable or returns garbage.
type Selector struct {
	ranker ports.Ranker
	promo  *PromoFilter
	logger *slog.Logger
}

// NewSelector wires the ranking collaborator and promotional blocklist.
func NewSelector(ranker ports.Ranker, promo *PromoFilter, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	if promo == nil {
		promo = NewPromoFilter(nil)
	}
	return &Selector{ranker: ranker, promo: promo, logger: logger}
}

// Select returns the representative hit, or nil with a reason when the
// candidate set yields nothing under the given exhaustion policy.
// Zero candidates never reach the ranker; a single candidate is returned
// directly with no LLM call.
func (s *Selector) Select(ctx context.Context, hits []domain.SearchHit, policy ExhaustionPolicy) (*domain.SearchHit, string) {
	switch len(hits) {
	case 0:
		return nil, ReasonNoArticles
	case 1:
		return &hits[0], ""
	}

	filtered := s.promo.Filter(hits)
	if len(filtered) == 0 {
		if policy == ExhaustionFallbackSimilar {
			pick := hits[mostRepresentative(hits)]
			s.logger.Debug("promotional filter exhausted, falling back to most similar hit",
				"candidates", len(hits), "title", pick.Title)
			return &pick, ""
		}
		return nil, ReasonAllPromotional
	}
	if len(filtered) == 1 {
		return &filtered[0], ""
	}

	topN := 3
	if len(filtered) < topN {
		topN = len(filtered)
	}

	indices, err := s.ranker.RankImportant(ctx, toCandidates(filtered), topN)
	if err != nil {
		s.logger.Warn("ranking call failed, using similarity fallback", "error", err)
		pick := hits[mostRepresentative(hits)]
		return &pick, ""
	}

	referenced := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(filtered) {
			referenced[idx] = true
		}
	}

	// Longest body among the referenced candidates; ties keep the earliest
	// occurrence. Body length is a proxy for the most substantive coverage
	// among articles the ranker already called important.
	best := -1
	for idx := range filtered {
		if !referenced[idx] {
			continue
		}
		if best == -1 || len(filtered[idx].Body) > len(filtered[best].Body) {
			best = idx
		}
	}
	if best == -1 {
		// The ranker answered but every index was out of range; treat the
		// call as failed and fall back over the unfiltered set.
		s.logger.Warn("ranking returned no usable indices, using similarity fallback", "indices", indices)
		pick := hits[mostRepresentative(hits)]
		return &pick, ""
	}

	return &filtered[best], ""
}

func toCandidates(hits []domain.SearchHit) []ports.RankCandidate {
	out := make([]ports.RankCandidate, len(hits))
	for i, hit := range hits {
		out[i] = ports.RankCandidate{Title: hit.Title, Body: hit.Body}
	}
	return out
}
