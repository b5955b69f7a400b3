package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/config"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
)

func TestSearchMapsResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Naver-Client-Id"); got != "id" {
			t.Errorf("unexpected client id header %q", got)
		}
		if got := r.URL.Query().Get("sort"); got != "date" {
			t.Errorf("unexpected sort %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "acme" {
			t.Errorf("unexpected query %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{
					"title":        "Acme <b>wins</b> contract",
					"description":  "Acme signed a contract.",
					"originallink": "https://news.example.com/original",
					"link":         "https://portal.example.com/mirror",
					"pubDate":      "Mon, 17 Aug 2026 09:30:00 +0900",
				},
				{
					"title":       "Fallback link story",
					"description": "Only the portal link exists.",
					"link":        "https://portal.example.com/only",
					"pubDate":     "Tue, 18 Aug 2026 10:00:00 +0900",
				},
				{
					"title":   "Broken date is skipped",
					"pubDate": "not a date",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(config.SearchConfig{
		Endpoint:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	hits, err := client.Search(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	if hits[0].SourceURL != "https://news.example.com/original" {
		t.Fatalf("expected originallink preferred, got %s", hits[0].SourceURL)
	}
	if hits[1].SourceURL != "https://portal.example.com/only" {
		t.Fatalf("expected link fallback, got %s", hits[1].SourceURL)
	}

	want := time.Date(2026, 8, 17, 9, 30, 0, 0, time.FixedZone("", 9*3600))
	if !hits[0].PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time %v", hits[0].PublishedAt)
	}
}

func TestSearchNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errorMessage":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(config.SearchConfig{Endpoint: srv.URL, ClientID: "id", ClientSecret: "secret"})
	_, err := client.Search(context.Background(), "acme")
	if !errors.Is(err, domain.ErrSearch) {
		t.Fatalf("expected ErrSearch, got %v", err)
	}
}

func TestSearchMissingCredentials(t *testing.T) {
	t.Parallel()

	client := NewClient(config.SearchConfig{Endpoint: "http://localhost"})
	_, err := client.Search(context.Background(), "acme")
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
