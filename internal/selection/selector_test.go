package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

type fakeRanker struct {
	indices    []int
	rankErr    error
	rankCalls  int
	scores     []domain.ArticleScore
	scoreErr   error
	scoreCalls int
}

func (f *fakeRanker) RankImportant(_ context.Context, _ []ports.RankCandidate, _ int) ([]int, error) {
	f.rankCalls++
	return f.indices, f.rankErr
}

func (f *fakeRanker) ScoreArticles(_ context.Context, _ []ports.RankCandidate) ([]domain.ArticleScore, error) {
	f.scoreCalls++
	return f.scores, f.scoreErr
}

func TestSelectEmpty(t *testing.T) {
	t.Parallel()

	ranker := &fakeRanker{}
	selector := NewSelector(ranker, nil, nil)

	hit, reason := selector.Select(context.Background(), nil, ExhaustionDropKeyword)
	if hit != nil || reason != ReasonNoArticles {
		t.Fatalf("got (%v, %q)", hit, reason)
	}
	if ranker.rankCalls != 0 {
		t.Fatal("ranker must not be called for empty input")
	}
}

func TestSelectSingleCandidateSkipsRanker(t *testing.T) {
	t.Parallel()

	ranker := &fakeRanker{}
	selector := NewSelector(ranker, nil, nil)
	hits := []domain.SearchHit{{Title: "only story", Body: "body"}}

	hit, reason := selector.Select(context.Background(), hits, ExhaustionDropKeyword)
	if hit == nil || hit.Title != "only story" || reason != "" {
		t.Fatalf("got (%v, %q)", hit, reason)
	}
	if ranker.rankCalls != 0 {
		t.Fatal("ranker must not be called for a single candidate")
	}
}

func TestSelectPicksLongestBodyAmongRanked(t *testing.T) {
	t.Parallel()

	hits := []domain.SearchHit{
		{Title: "short pick", Body: "tiny"},
		{Title: "long pick", Body: "a considerably longer body with real substance"},
		{Title: "medium pick", Body: "middle length body"},
	}
	ranker := &fakeRanker{indices: []int{0, 1}}
	selector := NewSelector(ranker, nil, nil)

	hit, _ := selector.Select(context.Background(), hits, ExhaustionDropKeyword)
	if hit == nil || hit.Title != "long pick" {
		t.Fatalf("expected longest-body ranked hit, got %+v", hit)
	}
	if ranker.rankCalls != 1 {
		t.Fatalf("expected 1 ranking call, got %d", ranker.rankCalls)
	}
}

func TestSelectFallsBackOnRankerError(t *testing.T) {
	t.Parallel()

	hits := []domain.SearchHit{
		{Title: "Acme wins contract", Body: "Acme signed a large supply contract"},
		{Title: "Acme wins contract today", Body: "Acme signed a large supply contract this morning"},
		{Title: "Unrelated festival", Body: "Rain delayed the parade"},
	}
	ranker := &fakeRanker{rankErr: errors.New("network down")}
	selector := NewSelector(ranker, nil, nil)

	hit, reason := selector.Select(context.Background(), hits, ExhaustionDropKeyword)
	if hit == nil || reason != "" {
		t.Fatalf("fallback must produce a pick, got (%v, %q)", hit, reason)
	}
	if hit.Title == "Unrelated festival" {
		t.Fatalf("fallback picked the outlier: %+v", hit)
	}
}

func TestSelectFallsBackOnOutOfRangeIndices(t *testing.T) {
	t.Parallel()

	hits := []domain.SearchHit{
		{Title: "Acme wins contract", Body: "Acme signed a large supply contract"},
		{Title: "Acme wins contract today", Body: "Acme signed a large supply contract this morning"},
	}
	ranker := &fakeRanker{indices: []int{17, -2}}
	selector := NewSelector(ranker, nil, nil)

	hit, reason := selector.Select(context.Background(), hits, ExhaustionDropKeyword)
	if hit == nil || reason != "" {
		t.Fatalf("expected similarity fallback, got (%v, %q)", hit, reason)
	}
}

func TestSelectPromotionalExhaustionPolicies(t *testing.T) {
	t.Parallel()

	promo := NewPromoFilter([]string{"giveaway"})
	hits := []domain.SearchHit{
		{Title: "Acme giveaway one", Body: "giveaway details"},
		{Title: "Acme giveaway two", Body: "giveaway details again"},
	}

	ranker := &fakeRanker{}
	selector := NewSelector(ranker, promo, nil)

	hit, reason := selector.Select(context.Background(), hits, ExhaustionDropKeyword)
	if hit != nil || reason != ReasonAllPromotional {
		t.Fatalf("nightly policy: got (%v, %q)", hit, reason)
	}

	hit, reason = selector.Select(context.Background(), hits, ExhaustionFallbackSimilar)
	if hit == nil || reason != "" {
		t.Fatalf("fallback policy must yield a pick, got (%v, %q)", hit, reason)
	}
	if ranker.rankCalls != 0 {
		t.Fatal("exhausted filter must not reach the ranker")
	}
}
