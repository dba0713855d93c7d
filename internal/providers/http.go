package providers

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"
)

// shouldRetryStatus returns true for status codes worth retrying at the transport level.
func shouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	case 520, 521, 522, 523, 524: // Cloudflare errors
		return true
	default:
		return statusCode >= 500
	}
}

// sleepWithJitter sleeps for an exponential backoff with jitter, respecting context cancellation.
func sleepWithJitter(ctx context.Context, base time.Duration, attempt int) {
	delay := base * time.Duration(1<<attempt)
	if delay > 10*time.Second {
		delay = 10 * time.Second
	}

	// Jitter: -20% to +30%
	delay = time.Duration(float64(delay) * (0.8 + 0.5*rand.Float64()))

	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}
