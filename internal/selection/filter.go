// Package selection decides which search hits survive filtering and which
// single hit represents a keyword's coverage for a run.
package selection

import (
	"strings"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/normalize"
)

// WithinWindow reports whether publishedAt falls inside the trailing window
// of windowDays before ref. The lower bound is inclusive and there is no
// upper bound: late-arriving or future-dated items are accepted.
func WithinWindow(publishedAt, ref time.Time, windowDays int) bool {
	return !publishedAt.Before(ref.AddDate(0, 0, -windowDays))
}

// MatchesKeyword is a case-insensitive substring test of the raw keyword
// against the normalized title. Not tokenized, not stemmed; substrings of
// longer words match.
func MatchesKeyword(title, keyword string) bool {
	title = normalize.StripHighlightMarkup(title)
	return strings.Contains(strings.ToLower(title), strings.ToLower(keyword))
}

// PromoFilter excludes articles whose text matches a blocklist of
// promotional, marketing, event, and CSR terms. The blocklist is injected
// so deployments can tune it per language.
type PromoFilter struct {
	terms []string
}

// NewPromoFilter builds a filter over lowercase copies of the terms.
func NewPromoFilter(terms []string) *PromoFilter {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}
	return &PromoFilter{terms: lowered}
}

// IsPromotional reports whether any blocklist term appears in the combined
// title and body, case-insensitively.
func (f *PromoFilter) IsPromotional(title, body string) bool {
	text := strings.ToLower(title + " " + body)
	for _, term := range f.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Filter returns the hits that are not promotional, preserving order.
func (f *PromoFilter) Filter(hits []domain.SearchHit) []domain.SearchHit {
	kept := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if !f.IsPromotional(hit.Title, hit.Body) {
			kept = append(kept, hit)
		}
	}
	return kept
}

// ExhaustionPolicy names what happens when the promotional filter removes
// every candidate. The nightly crawl drops the keyword; the live-search and
// backfill variant falls back to the most similar unfiltered article. The
// divergence is preserved deliberately as two named behaviors.
type ExhaustionPolicy int

const (
	// ExhaustionDropKeyword yields Absent("all candidates promotional").
	ExhaustionDropKeyword ExhaustionPolicy = iota
	// ExhaustionFallbackSimilar picks the most representative unfiltered hit.
	ExhaustionFallbackSimilar
)
