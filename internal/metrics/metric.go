// Package metrics tracks usage for completion calls made during a run.
package metrics

import "time"

// Metric is a single recorded completion call.
type Metric struct {
	// Attribution
	RunID   string `json:"run_id,omitempty"`
	Stage   string `json:"stage,omitempty"`
	ItemKey string `json:"item_key,omitempty"` // e.g., "page_0005", "case_0002"
	Attempt int    `json:"attempt,omitempty"`

	// Provider info
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Tokens
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	// Timing
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Error types recorded on failed calls.
const (
	ErrorTypeBackend   = "backend"
	ErrorTypeEmpty     = "empty"
	ErrorTypeMalformed = "malformed"
	ErrorTypeTimeout   = "timeout"
	ErrorTypeAborted   = "aborted"
)
