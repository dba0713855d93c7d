// Package providers implements the completion backends used for extraction.
package providers

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks transport or backend failures when calling a model.
// Callers check it with errors.Is.
var ErrBackend = errors.New("completion backend error")

// Variant selects a backend implementation.
type Variant string

const (
	VariantLocal  Variant = "local"
	VariantHosted Variant = "hosted"
)

// LLMClient is the interface for chat completion requests.
type LLMClient interface {
	// Chat sends a chat completion request. An empty completion is not an error.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "ollama").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters (client defaults when zero)
	Temperature   float64 `json:"temperature,omitempty"`
	ContextWindow int     `json:"context_window,omitempty"`
	MaxTokens     int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// NewChatRequest builds the (system prompt, user text) request used by extraction.
func NewChatRequest(systemPrompt, userText string) *ChatRequest {
	return &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	}
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`
}
