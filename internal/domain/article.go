package domain

import "time"

// SearchHit is a raw result from the news search API. Titles and bodies may
// still carry highlight markup and HTML entities; hits are never persisted
// directly.
type SearchHit struct {
	Title       string
	Body        string
	SourceURL   string
	PublishedAt time.Time
}

// Keyword belongs to a category and is immutable once a crawl run starts.
type Keyword struct {
	ID         int64
	CategoryID int64
	Text       string
}

// Category is loaded once per run as an immutable snapshot; mutations during
// a run do not affect the in-flight run.
type Category struct {
	ID           int64
	Name         string
	DisplayOrder int
	Keywords     []Keyword
}

// Article is the persisted outcome of one successful keyword processing.
// CrawledAt is the run's logical date, shared by every article of the run.
type Article struct {
	ID          int64
	CategoryID  int64
	Keyword     *string
	Title       string
	Summary     string
	SourceURL   string
	PublishedAt time.Time
	CrawledAt   time.Time
}

// ArticleScore is one entry of a live-search scoring response: the candidate
// index with its importance (1-10) and a short summary.
type ArticleScore struct {
	Index      int
	Importance int
	Summary    string
}

// RankedArticle is a live-search result: a cleaned hit with its importance
// score and summary. Lists of ranked articles are sorted by importance,
// highest first.
type RankedArticle struct {
	Hit        SearchHit
	Importance int
	Summary    string
}
