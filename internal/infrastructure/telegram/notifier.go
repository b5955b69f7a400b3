// Package telegram delivers the run digest to a Telegram chat via bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// messageLimit is Telegram's hard cap per message.
const messageLimit = 4096

// Notifier formats crawl results as a Markdown digest grouped by category.
type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends the digest. One message per chunk when the digest exceeds
// the Telegram message limit.
func (n *Notifier) Notify(ctx context.Context, categories []domain.CategoryResult) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	digest := BuildDigest(categories)
	if digest == "" {
		return nil
	}

	for _, chunk := range splitMessage(digest, messageLimit) {
		if err := n.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// BuildDigest renders one Markdown block per category that produced news.
func BuildDigest(categories []domain.CategoryResult) string {
	var b strings.Builder
	for _, result := range categories {
		if len(result.Articles) == 0 {
			continue
		}
		fmt.Fprintf(&b, "*%s*\n", result.Category.Name)
		for _, article := range result.Articles {
			keyword := ""
			if article.Keyword != nil {
				keyword = fmt.Sprintf(" (%s)", *article.Keyword)
			}
			fmt.Fprintf(&b, "- %s%s\n", article.Title, keyword)
			if article.Summary != "" {
				fmt.Fprintf(&b, "  %s\n", article.Summary)
			}
			fmt.Fprintf(&b, "  %s\n", article.SourceURL)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if current.Len()+len(line)+1 > limit && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
