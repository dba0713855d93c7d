package providers

import (
	"context"
	"sync"
	"time"
)

// MockResponse is one scripted reply. Err takes precedence over Content.
type MockResponse struct {
	Content string
	Err     error
	Delay   time.Duration
}

// MockClient replays scripted responses in order. Once the script runs out
// the last entry repeats. Safe for concurrent use.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	respond   func(req *ChatRequest) MockResponse
	requests  []*ChatRequest
}

// NewMockClient returns a client that replays responses in order.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// NewMockClientFunc returns a client that computes each reply from the request.
func NewMockClientFunc(fn func(req *ChatRequest) MockResponse) *MockClient {
	return &MockClient{respond: fn}
}

// Name returns the client identifier.
func (m *MockClient) Name() string {
	return "mock"
}

// Chat records the request and returns the next scripted response.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	m.mu.Lock()
	idx := len(m.requests)
	m.requests = append(m.requests, req)
	var resp MockResponse
	switch {
	case m.respond != nil:
		m.mu.Unlock()
		resp = m.respond(req)
		m.mu.Lock()
	case len(m.responses) == 0:
	case idx < len(m.responses):
		resp = m.responses[idx]
	default:
		resp = m.responses[len(m.responses)-1]
	}
	m.mu.Unlock()

	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ChatResult{
		Content:   resp.Content,
		Provider:  "mock",
		ModelUsed: req.Model,
		RequestID: req.RequestID,
	}, nil
}

// Calls returns the number of Chat invocations.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received.
func (m *MockClient) Requests() []*ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

var _ LLMClient = (*MockClient)(nil)
