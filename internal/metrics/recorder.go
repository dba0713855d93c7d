package metrics

import (
	"sync"
	"time"

	"github.com/jackzampolin/casebook/internal/providers"
)

// Recorder accumulates metrics and pipeline counters in memory for one run.
// A nil *Recorder discards everything.
type Recorder struct {
	mu       sync.Mutex
	runID    string
	metrics  []Metric
	counters map[string]int
}

// NewRecorder creates a recorder for the given run.
func NewRecorder(runID string) *Recorder {
	return &Recorder{
		runID:    runID,
		counters: make(map[string]int),
	}
}

// RunID returns the run this recorder belongs to.
func (r *Recorder) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

// RecordOpts provides context for a metric recording.
type RecordOpts struct {
	Stage   string
	ItemKey string
	Attempt int
}

// Record stores a single metric.
func (r *Recorder) Record(m Metric) {
	if r == nil {
		return
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.RunID == "" {
		m.RunID = r.runID
	}
	r.mu.Lock()
	r.metrics = append(r.metrics, m)
	r.mu.Unlock()
}

// RecordLLMCall records one completion call. result may be nil when the
// call failed before the backend answered.
func (r *Recorder) RecordLLMCall(opts RecordOpts, result *providers.ChatResult, errorType string) {
	m := Metric{
		Stage:     opts.Stage,
		ItemKey:   opts.ItemKey,
		Attempt:   opts.Attempt,
		Success:   errorType == "",
		ErrorType: errorType,
	}
	if result != nil {
		m.Provider = result.Provider
		m.Model = result.ModelUsed
		m.PromptTokens = result.PromptTokens
		m.CompletionTokens = result.CompletionTokens
		m.TotalTokens = result.TotalTokens
		m.ExecutionSeconds = result.ExecutionTime.Seconds()
	}
	r.Record(m)
}

// Add increments a named pipeline counter.
func (r *Recorder) Add(name string, delta int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.counters[name] += delta
	r.mu.Unlock()
}

// Count returns a named counter.
func (r *Recorder) Count(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// List returns a copy of recorded metrics, optionally filtered by stage.
func (r *Recorder) List(stage string) []Metric {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Metric, 0, len(r.metrics))
	for _, m := range r.metrics {
		if stage == "" || m.Stage == stage {
			out = append(out, m)
		}
	}
	return out
}
