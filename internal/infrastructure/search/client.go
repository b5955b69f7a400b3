// Package search implements the news search API collaborator. The upstream
// API returns recency-sorted pages with highlight markup in titles; all
// date and relevance filtering happens in the pipeline, not here.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/config"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

const defaultPageSize = 100

// Client talks to a Naver-style news search open API.
type Client struct {
	endpoint     string
	clientID     string
	clientSecret string
	pageSize     int
	httpClient   *http.Client
}

var _ ports.SearchClient = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.SearchConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		pageSize:     pageSize,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	PubDate      string `json:"pubDate"`
}

// Search fetches one recency-sorted page of hits for the keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.SearchHit, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, domain.ConfigError("search API client id/secret")
	}

	query := url.Values{}
	query.Set("query", keyword)
	query.Set("display", strconv.Itoa(c.pageSize))
	query.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrSearch, resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSearch, err)
	}

	hits := make([]domain.SearchHit, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		publishedAt, err := time.Parse(time.RFC1123Z, item.PubDate)
		if err != nil {
			continue
		}
		sourceURL := item.OriginalLink
		if sourceURL == "" {
			sourceURL = item.Link
		}
		hits = append(hits, domain.SearchHit{
			Title:       item.Title,
			Body:        item.Description,
			SourceURL:   sourceURL,
			PublishedAt: publishedAt,
		})
	}
	return hits, nil
}
