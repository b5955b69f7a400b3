package selection

import (
	"strings"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

// duplicateThreshold is the title similarity above which two hits are
// treated as the same story in the live-search path.
const duplicateThreshold = 0.7

// bigrams returns the multiset of rune bigrams of the lowercased text.
// Rune-based so the metric behaves for CJK text as well as Latin.
func bigrams(text string) map[string]int {
	runes := []rune(strings.ToLower(text))
	set := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])]++
	}
	return set
}

// Similarity is the Sorensen-Dice coefficient over rune bigrams, in [0, 1].
// Deterministic and symmetric.
func Similarity(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) && strings.TrimSpace(a) != "" {
			return 1
		}
		return 0
	}

	total, overlap := 0, 0
	for gram, n := range ba {
		total += n
		if m, ok := bb[gram]; ok {
			if m < n {
				overlap += m
			} else {
				overlap += n
			}
		}
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(overlap) / float64(total)
}

// mostRepresentative scores every hit by its mean similarity of
// title+" "+body to all other hits and returns the index with the highest
// mean. Ties go to the first occurrence. This models the article closest to
// the consensus coverage and is the deterministic, LLM-free safety net.
func mostRepresentative(hits []domain.SearchHit) int {
	if len(hits) <= 1 {
		return 0
	}

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Title + " " + hit.Body
	}

	best, bestScore := 0, -1.0
	for i := range texts {
		sum := 0.0
		for j := range texts {
			if i == j {
				continue
			}
			sum += Similarity(texts[i], texts[j])
		}
		mean := sum / float64(len(texts)-1)
		if mean > bestScore {
			best, bestScore = i, mean
		}
	}
	return best
}

// dedupeByTitle drops hits whose title is near-identical to an earlier one,
// keeping the first-seen member of each duplicate cluster.
func dedupeByTitle(hits []domain.SearchHit) []domain.SearchHit {
	kept := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		duplicate := false
		for _, prev := range kept {
			if Similarity(hit.Title, prev.Title) >= duplicateThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, hit)
		}
	}
	return kept
}
