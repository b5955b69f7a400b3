package domain

import "time"

// ProgressStage identifies which pipeline level emitted an event.
type ProgressStage string

const (
	StageRun      ProgressStage = "run"
	StageCategory ProgressStage = "category"
	StageKeyword  ProgressStage = "keyword"
)

// ProgressState identifies what happened at that level.
type ProgressState string

const (
	StateStarted     ProgressState = "started"
	StateFound       ProgressState = "found"
	StateSelected    ProgressState = "selected"
	StateSummarizing ProgressState = "summarizing"
	StateCompleted   ProgressState = "completed"
	StateError       ProgressState = "error"
	StateSkipped     ProgressState = "skipped"
)

// ProgressEvent is pushed to observers at every pipeline transition. Fields
// are denormalized so a UI can rebuild its state from any single event
// without replaying earlier ones. Events are transient, never persisted.
type ProgressEvent struct {
	Stage        ProgressStage `json:"stage"`
	State        ProgressState `json:"state"`
	CategoryID   int64         `json:"categoryId,omitempty"`
	CategoryName string        `json:"categoryName,omitempty"`
	Keyword      string        `json:"keyword,omitempty"`
	Title        string        `json:"title,omitempty"`
	Count        int           `json:"count,omitempty"`
	Succeeded    int           `json:"succeeded,omitempty"`
	Failed       int           `json:"failed,omitempty"`
	Total        int           `json:"total,omitempty"`
	Success      bool          `json:"success"`
	Reason       string        `json:"reason,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
}
