package domain

import "time"

// KeywordOutcome is the terminal result of processing one keyword: either a
// persisted article or an absence with a human-readable reason. A keyword
// never raises past its batch boundary, so one of the two is always set.
type KeywordOutcome struct {
	Keyword string
	Article *Article
	Reason  string
}

// Succeeded reports whether the keyword produced a persisted article.
func (o KeywordOutcome) Succeeded() bool {
	return o.Article != nil
}

// Absent builds a no-article outcome with its reason.
func Absent(keyword, reason string) KeywordOutcome {
	return KeywordOutcome{Keyword: keyword, Reason: reason}
}

// CategoryStatus classifies how a category's keyword batch went.
type CategoryStatus string

const (
	// CategorySkipped: the category had zero keywords; no fetch happened.
	CategorySkipped CategoryStatus = "skipped"
	// CategoryNoNews: every keyword ended Absent. Informational, not an error.
	CategoryNoNews CategoryStatus = "no_news"
	// CategoryPartial: some but not all keywords produced an article.
	CategoryPartial CategoryStatus = "partial"
	// CategoryComplete: every keyword produced an article.
	CategoryComplete CategoryStatus = "complete"
)

// CategoryResult aggregates per-keyword outcomes for one category.
type CategoryResult struct {
	Category Category
	Status   CategoryStatus
	Outcomes []KeywordOutcome
	Articles []Article
}

// RunResult aggregates a whole crawl run.
type RunResult struct {
	CrawledAt  time.Time
	Categories []CategoryResult
	Articles   []Article
}
