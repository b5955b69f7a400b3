package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying collaborator failures. Wrap with fmt.Errorf
// and %w so callers can branch with errors.Is.
var (
	// ErrMissingCredentials marks a configuration error: an external
	// collaborator was invoked without its API credentials. Fatal to the
	// specific operation, never to the run.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrSearch marks a failed call to the news search API.
	ErrSearch = errors.New("search request failed")

	// ErrLLM marks a failed or unparseable LLM ranking/scoring call.
	ErrLLM = errors.New("llm request failed")

	// ErrSummarization marks an unusable summarization response: backend
	// unreachable, empty output, truncated with nothing usable, or the
	// model refusing to summarize a snippet.
	ErrSummarization = errors.New("summarization failed")

	// ErrPersistence marks a storage write failure; terminal for the
	// keyword that hit it, invisible to sibling keywords.
	ErrPersistence = errors.New("persistence failed")
)

// ConfigError reports a missing or invalid configuration value by name.
func ConfigError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingCredentials, field)
}
