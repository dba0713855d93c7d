package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/google/uuid"
)

const HostedName = "openai"

// HostedConfig holds configuration for the hosted (OpenAI-compatible) client.
type HostedConfig struct {
	APIKey       string
	BaseURL      string // Optional; any OpenAI-compatible endpoint
	DefaultModel string
	Temperature  float64
	MaxTokens    int
	MaxRetries   int // SDK transport retries (default: 0)
	Timeout      time.Duration
	Limiter      *RateLimiter // Optional
	HTTPClient   *http.Client // Optional (tests)
}

// HostedClient implements LLMClient using the official OpenAI SDK.
type HostedClient struct {
	defaultModel string
	temperature  float64
	maxTokens    int
	limiter      *RateLimiter
	client       openai.Client
}

// NewHostedClient creates a new hosted model client.
func NewHostedClient(cfg HostedConfig) *HostedClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &HostedClient{
		defaultModel: cfg.DefaultModel,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		limiter:      cfg.Limiter,
		client:       openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *HostedClient) Name() string {
	return HostedName
}

// Chat sends a chat completion request. ContextWindow is ignored; hosted models
// have a fixed context size.
func (c *HostedClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params, option.WithHeader("X-Request-Id", requestID))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.mapError(err)
	}

	// No choices is an empty completion, not a backend failure
	content := ""
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	return &ChatResult{
		Content:          content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         HostedName,
		ModelUsed:        completion.Model,
		RequestID:        requestID,
	}, nil
}

// mapError wraps SDK errors in ErrBackend and drains the limiter on 429s.
func (c *HostedClient) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
			c.limiter.Record429(time.Second)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("%w: openai status %d: %s", ErrBackend, apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%w: openai status %d", ErrBackend, apiErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrBackend, err)
}

// Verify interface
var _ LLMClient = (*HostedClient)(nil)
