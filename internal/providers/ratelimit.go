package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every request a client sends.
// Capacity equals the per-minute budget; tokens refill continuously.
type RateLimiter struct {
	mu sync.Mutex

	perMinute int
	tokens    float64
	updated   time.Time

	granted   int64
	waited    time.Duration
	throttled time.Time
}

// RateLimiterStatus is a snapshot of limiter state for the run summary.
type RateLimiterStatus struct {
	Available int           `json:"available"`
	PerMinute int           `json:"per_minute"`
	Granted   int64         `json:"granted"`
	Waited    time.Duration `json:"waited"`
	Throttled time.Time     `json:"throttled,omitempty"`
}

// NewRateLimiter returns a limiter allowing requestsPerMinute requests.
// It returns nil for a non-positive budget, meaning unlimited.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		perMinute: requestsPerMinute,
		tokens:    float64(requestsPerMinute),
		updated:   time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
// A nil limiter never blocks.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1.0 {
			r.tokens--
			r.granted++
			r.mu.Unlock()
			return nil
		}
		wait := r.untilNextLocked()
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.waited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1.0 {
		r.tokens--
		r.granted++
		return true
	}
	return false
}

// Record429 drains the bucket after the backend reported throttling.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.throttled = time.Now()
	if retryAfter > 0 {
		r.tokens = 0
	}
}

// Status returns a snapshot of the limiter.
func (r *RateLimiter) Status() RateLimiterStatus {
	if r == nil {
		return RateLimiterStatus{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	return RateLimiterStatus{
		Available: int(r.tokens),
		PerMinute: r.perMinute,
		Granted:   r.granted,
		Waited:    r.waited,
		Throttled: r.throttled,
	}
}

// refill must be called with mu held.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.updated).Seconds() * r.ratePerSecond()
	r.updated = now
	if r.tokens > float64(r.perMinute) {
		r.tokens = float64(r.perMinute)
	}
}

func (r *RateLimiter) ratePerSecond() float64 {
	return float64(r.perMinute) / 60.0
}

func (r *RateLimiter) untilNextLocked() time.Duration {
	need := 1.0 - r.tokens
	d := time.Duration(need / r.ratePerSecond() * float64(time.Second))
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}
