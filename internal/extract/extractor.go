// Package extract turns unreliable model completions into validated JSON.
//
// An Extractor sends one unit of text to a completion backend and retries
// until the sanitized completion parses and matches the expected Shape, or
// the attempt budget runs out.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/casebook/internal/metrics"
	"github.com/jackzampolin/casebook/internal/providers"
)

const (
	DefaultMaxAttempts = 3

	// maxLoggedText bounds the faulty completion text written to the log.
	maxLoggedText = 500
)

// Config controls the retry loop.
type Config struct {
	Client         providers.LLMClient
	MaxAttempts    int           // default 3
	AttemptTimeout time.Duration // 0 = no per-attempt deadline
	RetryDelay     time.Duration // pause between attempts
	Metrics        *metrics.Recorder
	Logger         *slog.Logger
}

// Extractor runs the bounded extraction loop.
type Extractor struct {
	client         providers.LLMClient
	maxAttempts    int
	attemptTimeout time.Duration
	retryDelay     time.Duration
	metrics        *metrics.Recorder
	logger         *slog.Logger
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:         cfg.Client,
		maxAttempts:    cfg.MaxAttempts,
		attemptTimeout: cfg.AttemptTimeout,
		retryDelay:     cfg.RetryDelay,
		metrics:        cfg.Metrics,
		logger:         logger,
	}
}

// Request is one unit of text to extract from.
type Request struct {
	Text         string
	SystemPrompt string
	Shape        *Shape // nil accepts any well-formed JSON

	// Decode, when set, receives the checked JSON within the attempt. An
	// error makes the completion malformed, so it consumes an attempt.
	Decode func(data json.RawMessage) error

	// Attribution for logs and metrics
	Stage   string
	ItemKey string
}

// Extract runs the loop. It never returns an error: failures are reported
// through the Outcome's Reason.
func (e *Extractor) Extract(ctx context.Context, req Request) Outcome {
	logger := e.logger.With("stage", req.Stage, "item", req.ItemKey)

	var (
		out     Outcome
		attempt int
	)
	err := retry.Do(
		func() error {
			attempt++
			data, err := e.attempt(ctx, req, attempt, logger)
			if err != nil {
				return err
			}
			out.Data = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.maxAttempts)),
		retry.Delay(e.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	out.Attempts = attempt

	switch {
	case err == nil:
		logger.Debug("extraction succeeded", "attempts", attempt)
		return out
	case ctx.Err() != nil:
		out.Reason, out.Cause = ReasonAborted, ctx.Err()
	case !retry.IsRecoverable(err) || !isAttemptFailure(err):
		out.Reason, out.Cause = ReasonAborted, err
	case errors.Is(err, providers.ErrBackend) || errors.Is(err, ErrAttemptTimeout):
		out.Reason, out.Cause = ReasonBackend, err
	default:
		out.Reason, out.Cause = ReasonExhausted, err
	}
	out.Data = nil

	logger.Warn("extraction failed", "reason", out.Reason, "attempts", attempt, "error", out.Cause)
	return out
}

// attempt makes one completion call. Retryable failures are returned as is;
// anything else is marked unrecoverable.
func (e *Extractor) attempt(ctx context.Context, req Request, n int, logger *slog.Logger) ([]byte, error) {
	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if e.attemptTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
	}
	defer cancel()

	opts := metrics.RecordOpts{Stage: req.Stage, ItemKey: req.ItemKey, Attempt: n}

	result, err := e.client.Chat(attemptCtx, providers.NewChatRequest(req.SystemPrompt, req.Text))
	if err != nil {
		switch {
		case ctx.Err() != nil:
			e.metrics.RecordLLMCall(opts, nil, metrics.ErrorTypeAborted)
			return nil, retry.Unrecoverable(ctx.Err())
		case attemptCtx.Err() != nil:
			e.metrics.RecordLLMCall(opts, nil, metrics.ErrorTypeTimeout)
			logger.Warn("completion attempt timed out", "attempt", n, "timeout", e.attemptTimeout)
			return nil, fmt.Errorf("%w after %s", ErrAttemptTimeout, e.attemptTimeout)
		case errors.Is(err, providers.ErrBackend):
			e.metrics.RecordLLMCall(opts, nil, metrics.ErrorTypeBackend)
			logger.Warn("completion backend error", "attempt", n, "error", err)
			return nil, err
		default:
			e.metrics.RecordLLMCall(opts, nil, metrics.ErrorTypeAborted)
			return nil, retry.Unrecoverable(err)
		}
	}

	text := Sanitize(result.Content)
	if text == "" {
		e.metrics.RecordLLMCall(opts, result, metrics.ErrorTypeEmpty)
		logger.Warn("empty completion", "attempt", n)
		return nil, ErrEmptyCompletion
	}

	data, err := req.Shape.Check(text)
	if err != nil {
		e.metrics.RecordLLMCall(opts, result, metrics.ErrorTypeMalformed)
		logger.Warn("malformed completion", "attempt", n, "error", err, "text", truncate(text, maxLoggedText))
		return nil, err
	}
	if req.Decode != nil {
		if err := req.Decode(data); err != nil {
			e.metrics.RecordLLMCall(opts, result, metrics.ErrorTypeMalformed)
			logger.Warn("completion did not decode", "attempt", n, "error", err, "text", truncate(text, maxLoggedText))
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	e.metrics.RecordLLMCall(opts, result, "")
	return data, nil
}

func isAttemptFailure(err error) bool {
	return errors.Is(err, providers.ErrBackend) ||
		errors.Is(err, ErrAttemptTimeout) ||
		errors.Is(err, ErrEmptyCompletion) ||
		errors.Is(err, ErrMalformed)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...[truncated]"
}
