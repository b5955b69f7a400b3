package telegram

import (
	"strings"
	"testing"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	keyword := "acme"
	categories := []domain.CategoryResult{
		{
			Category: domain.Category{Name: "Tech"},
			Articles: []domain.Article{
				{
					Title:     "Acme wins contract",
					Summary:   "Acme signed a large deal.",
					SourceURL: "https://news.example.com/a",
					Keyword:   &keyword,
				},
				{
					Title:     "No summary story",
					SourceURL: "https://news.example.com/b",
				},
			},
		},
		{
			Category: domain.Category{Name: "Empty"},
			Status:   domain.CategoryNoNews,
		},
	}

	digest := BuildDigest(categories)

	if !strings.Contains(digest, "*Tech*") {
		t.Fatalf("missing category header: %q", digest)
	}
	if !strings.Contains(digest, "- Acme wins contract (acme)") {
		t.Fatalf("missing keyword provenance: %q", digest)
	}
	if !strings.Contains(digest, "Acme signed a large deal.") {
		t.Fatalf("missing summary line: %q", digest)
	}
	if strings.Contains(digest, "Empty") {
		t.Fatalf("newsless category leaked into digest: %q", digest)
	}
	if strings.Contains(digest, "()") {
		t.Fatalf("empty keyword rendered as parens: %q", digest)
	}
}

func TestBuildDigestEmpty(t *testing.T) {
	t.Parallel()

	if got := BuildDigest(nil); got != "" {
		t.Fatalf("expected empty digest, got %q", got)
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("x", 20))
	}
	text := strings.Join(lines, "\n")

	chunks := splitMessage(text, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Fatalf("chunk %d exceeds the limit: %d bytes", i, len(chunk))
		}
		if chunk == "" {
			t.Fatalf("chunk %d is empty", i)
		}
	}
	if strings.Count(strings.Join(chunks, "\n"), "x") != strings.Count(text, "x") {
		t.Fatal("splitting lost content")
	}

	single := splitMessage("short", 100)
	if len(single) != 1 || single[0] != "short" {
		t.Fatalf("short text should be a single chunk, got %v", single)
	}
}
