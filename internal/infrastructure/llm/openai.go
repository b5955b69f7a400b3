// Package llm implements the ranking and summarization collaborators on an
// OpenAI-compatible chat completion API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/config"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// promptBodyLimit bounds how much candidate body text goes into a prompt.
const promptBodyLimit = 600

// summaryBodyLimit bounds the article body handed to summarization.
const summaryBodyLimit = 6000

// OpenAIClient implements ports.Ranker and ports.Summarizer against an
// OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ports.Ranker     = (*OpenAIClient)(nil)
	_ ports.Summarizer = (*OpenAIClient)(nil)
)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// RankImportant asks the model for up to topN candidate indices carrying
// business-change significance, explicitly excluding event and promotional
// coverage. Returned indices are zero-based into candidates.
func (c *OpenAIClient) RankImportant(ctx context.Context, candidates []ports.RankCandidate, topN int) ([]int, error) {
	var sb strings.Builder
	for i, cand := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n%s\n\n", i+1, cand.Title, truncate(cand.Body, promptBodyLimit))
	}
	system := "You rank news articles by business significance: earnings, contracts, " +
		"investment, executive moves, litigation, patents. Exclude event, promotional, " +
		"and CSR coverage. Answer with article numbers only, comma separated, e.g. [1,3]."
	user := fmt.Sprintf("Pick up to %d most significant articles:\n\n%s", topN, sb.String())

	content, _, err := c.chat(ctx, system, user)
	if err != nil {
		return nil, err
	}

	indices := ParseIndexList(content)
	valid := make([]int, 0, len(indices))
	for _, n := range indices {
		idx := n - 1
		if idx >= 0 && idx < len(candidates) {
			valid = append(valid, idx)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no usable indices in %q", domain.ErrLLM, truncate(content, 120))
	}
	if len(valid) > topN {
		valid = valid[:topN]
	}
	return valid, nil
}

type scoreEntry struct {
	Index      int    `json:"index"`
	Importance int    `json:"importance"`
	Summary    string `json:"summary"`
}

// ScoreArticles asks the model for an importance score (1-10) and a short
// summary per candidate, for the live-search ranking.
func (c *OpenAIClient) ScoreArticles(ctx context.Context, candidates []ports.RankCandidate) ([]domain.ArticleScore, error) {
	var sb strings.Builder
	for i, cand := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n%s\n\n", i+1, cand.Title, truncate(cand.Body, promptBodyLimit))
	}
	system := "You score news articles by business significance from 1 to 10 and write a " +
		"one-sentence summary each. Event and promotional coverage scores low. Respond with " +
		`a JSON array only: [{"index":1,"importance":8,"summary":"..."}]`
	content, _, err := c.chat(ctx, system, sb.String())
	if err != nil {
		return nil, err
	}

	payload := extractJSONArray(content)
	var entries []scoreEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("%w: parse scores: %v", domain.ErrLLM, err)
	}

	scores := make([]domain.ArticleScore, 0, len(entries))
	for _, entry := range entries {
		scores = append(scores, domain.ArticleScore{
			Index:      entry.Index - 1,
			Importance: entry.Importance,
			Summary:    entry.Summary,
		})
	}
	return scores, nil
}

// refusalMarkers match the model declining to summarize because it only
// sees a snippet instead of the full article.
var refusalMarkers = []string{
	"cannot summarize",
	"can't summarize",
	"unable to summarize",
	"full article",
	"전문을 제공",
	"원문을 제공",
	"기사 전문이 필요",
}

// Summarize produces a short summary of one article body. Truncated but
// nonempty responses are accepted with a warning; empty output, refusals,
// and transport failures are summarization errors.
func (c *OpenAIClient) Summarize(ctx context.Context, body string) (string, error) {
	system := "You summarize news articles in three sentences or fewer, keeping concrete " +
		"figures and names. Summarize from the given text as-is; never ask for more material."
	content, finishReason, err := c.chat(ctx, system, truncate(body, summaryBodyLimit))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummarization, err)
	}

	summary := strings.TrimSpace(content)
	if summary == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrSummarization)
	}

	lowered := strings.ToLower(summary)
	for _, marker := range refusalMarkers {
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return "", fmt.Errorf("%w: model refused snippet summarization", domain.ErrSummarization)
		}
	}

	if finishReason == "length" {
		c.logger.Warn("summary truncated by token limit, keeping partial content")
	}
	return summary, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

func (c *OpenAIClient) chat(ctx context.Context, system, user string) (content, finishReason string, err error) {
	if c.apiKey == "" {
		return "", "", domain.ConfigError("llm API key")
	}
	if c.endpoint == "" || c.model == "" {
		return "", "", domain.ConfigError("llm endpoint/model")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrLLM, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", "", fmt.Errorf("%w: %s: %s", domain.ErrLLM, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", fmt.Errorf("%w: decode response: %v", domain.ErrLLM, err)
	}
	if len(parsed.Choices) == 0 {
		return "", "", fmt.Errorf("%w: no choices in response", domain.ErrLLM)
	}

	choice := parsed.Choices[0]
	return choice.Message.Content, choice.FinishReason, nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
