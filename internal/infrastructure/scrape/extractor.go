// Package scrape fetches article pages and extracts their body text so the
// summarizer sees more than the search snippet.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// minContentRunes is the floor under which an extraction is considered
// failed; callers then fall back to the search snippet.
const minContentRunes = 200

// bodySelectors are tried in order; the first that yields paragraphs wins.
// Portal-specific selectors first, generic article markup last.
var bodySelectors = []string{
	"#dic_area",
	"#newsct_article",
	"#articleBodyContents",
	".article-body p",
	".article_body p",
	"article p",
	".content p",
}

// Extractor implements ports.ContentFetcher with goquery.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

var _ ports.ContentFetcher = (*Extractor)(nil)

// NewExtractor wires an HTTP client; a nil client gets a 15s timeout.
func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Extractor{
		httpClient: client,
		userAgent:  "NewsGPTArchive/1.0 (+article fetcher)",
	}
}

// Extract downloads the page and returns its main body text.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	for _, selector := range bodySelectors {
		content := collectText(doc, selector)
		if len([]rune(content)) >= minContentRunes {
			return content, nil
		}
	}

	return "", fmt.Errorf("no article body found at %s", pageURL)
}

func collectText(doc *goquery.Document, selector string) string {
	var paragraphs []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len([]rune(text)) > 10 {
			paragraphs = append(paragraphs, strings.Join(strings.Fields(text), " "))
		}
	})
	return strings.Join(paragraphs, "\n\n")
}
