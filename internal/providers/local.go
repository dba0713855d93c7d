package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	LocalName           = "ollama"
	LocalDefaultBaseURL = "http://localhost:11434"
)

// LocalConfig holds configuration for the local (Ollama) client.
type LocalConfig struct {
	BaseURL       string
	DefaultModel  string
	Temperature   float64
	ContextWindow int
	Timeout       time.Duration
	MaxRetries    int           // Transport retries on 429/5xx/network errors (default: 0)
	RetryDelay    time.Duration // Base delay between transport retries (default: 500ms)
	Limiter       *RateLimiter  // Optional
	HTTPClient    *http.Client  // Optional (tests)
}

// LocalClient implements LLMClient against Ollama's native /api/chat endpoint.
type LocalClient struct {
	baseURL       string
	defaultModel  string
	temperature   float64
	contextWindow int
	client        *http.Client
	maxRetries    int
	retryDelay    time.Duration
	limiter       *RateLimiter
}

// NewLocalClient creates a new local model client.
func NewLocalClient(cfg LocalConfig) *LocalClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = LocalDefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute // CPU inference on long pages is slow
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &LocalClient{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel:  cfg.DefaultModel,
		temperature:   cfg.Temperature,
		contextWindow: cfg.ContextWindow,
		client:        httpClient,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
		limiter:       cfg.Limiter,
	}
}

// Name returns the client identifier.
func (c *LocalClient) Name() string {
	return LocalName
}

// Chat sends a chat completion request.
func (c *LocalClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	if model == "" {
		return nil, fmt.Errorf("%w: no model configured", ErrBackend)
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	numCtx := req.ContextWindow
	if numCtx == 0 {
		numCtx = c.contextWindow
	}

	olReq := ollamaRequest{
		Model:    model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: temperature,
			NumCtx:      numCtx,
			NumPredict:  req.MaxTokens,
		},
	}
	for _, m := range req.Messages {
		olReq.Messages = append(olReq.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	olResp, err := c.doRequest(ctx, "/api/chat", &olReq)
	if err != nil {
		return nil, err
	}

	return &ChatResult{
		Content:          olResp.Message.Content,
		PromptTokens:     olResp.PromptEvalCount,
		CompletionTokens: olResp.EvalCount,
		TotalTokens:      olResp.PromptEvalCount + olResp.EvalCount,
		ExecutionTime:    time.Since(start),
		Provider:         LocalName,
		ModelUsed:        olResp.Model,
		RequestID:        requestID,
	}, nil
}

// doRequest makes an HTTP request to Ollama with transport-level retries.
// Context errors are returned unwrapped so callers can tell cancellation from backend failure.
func (c *LocalClient) doRequest(ctx context.Context, path string, body *ollamaRequest) (*ollamaResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			sleepWithJitter(ctx, c.retryDelay, attempt-1)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: request failed: %v", ErrBackend, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read response: %v", ErrBackend, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			c.limiter.Record429(c.retryDelay)
		}
		if shouldRetryStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("%w: ollama status %d: %s", ErrBackend, resp.StatusCode, truncate(string(respBody), 500))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: ollama status %d: %s", ErrBackend, resp.StatusCode, truncate(string(respBody), 500))
		}

		var olResp ollamaResponse
		if err := json.Unmarshal(respBody, &olResp); err != nil {
			return nil, fmt.Errorf("%w: failed to unmarshal response: %v", ErrBackend, err)
		}
		if olResp.Error != "" {
			return nil, fmt.Errorf("%w: ollama: %s", ErrBackend, olResp.Error)
		}

		return &olResp, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// Ollama API types

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error,omitempty"`
}

// Verify interface
var _ LLMClient = (*LocalClient)(nil)
