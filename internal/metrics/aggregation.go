package metrics

import (
	"sort"
	"time"
)

// Counter names used by the pipeline stages.
const (
	PagesProcessed  = "pages_processed"
	PagesSkipped    = "pages_skipped"
	EntriesFound    = "entries_found"
	CasesAttempted  = "cases_attempted"
	CasesExtracted  = "cases_extracted"
	CasesSkipped    = "cases_skipped"
	RecordsFiltered = "records_filtered"
	EntriesCapped   = "entries_capped"
)

// Summary aggregates completion calls.
type Summary struct {
	Calls            int            `json:"calls" yaml:"calls"`
	SuccessCount     int            `json:"success_count" yaml:"success_count"`
	ErrorCount       int            `json:"error_count" yaml:"error_count"`
	PromptTokens     int            `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens" yaml:"total_tokens"`
	TotalTime        time.Duration  `json:"total_time" yaml:"total_time"`
	ErrorTypes       map[string]int `json:"error_types,omitempty" yaml:"error_types,omitempty"`
}

// StageSummary is a Summary attributed to one stage.
type StageSummary struct {
	Stage   string `json:"stage" yaml:"stage"`
	Summary `yaml:",inline"`
}

// Summarize aggregates a set of metrics.
func Summarize(metrics []Metric) Summary {
	var s Summary
	for _, m := range metrics {
		s.Calls++
		s.PromptTokens += m.PromptTokens
		s.CompletionTokens += m.CompletionTokens
		s.TotalTokens += m.TotalTokens
		s.TotalTime += time.Duration(m.ExecutionSeconds * float64(time.Second))
		if m.Success {
			s.SuccessCount++
			continue
		}
		s.ErrorCount++
		if m.ErrorType != "" {
			if s.ErrorTypes == nil {
				s.ErrorTypes = make(map[string]int)
			}
			s.ErrorTypes[m.ErrorType]++
		}
	}
	return s
}

// Summary aggregates every recorded call.
func (r *Recorder) Summary() Summary {
	return Summarize(r.List(""))
}

// ByStage aggregates calls per stage, sorted by stage name.
func (r *Recorder) ByStage() []StageSummary {
	grouped := make(map[string][]Metric)
	for _, m := range r.List("") {
		grouped[m.Stage] = append(grouped[m.Stage], m)
	}

	out := make([]StageSummary, 0, len(grouped))
	for stage, ms := range grouped {
		out = append(out, StageSummary{Stage: stage, Summary: Summarize(ms)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}

// Counters returns a copy of all pipeline counters.
func (r *Recorder) Counters() map[string]int {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}
