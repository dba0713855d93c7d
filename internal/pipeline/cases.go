package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/casebook/internal/document"
	"github.com/jackzampolin/casebook/internal/extract"
	"github.com/jackzampolin/casebook/internal/home"
	"github.com/jackzampolin/casebook/internal/metrics"
	"github.com/jackzampolin/casebook/internal/prompts/casebrief"
)

// CasesConfig configures a CaseStage.
type CasesConfig struct {
	Reader       document.Reader
	Extractor    *extract.Extractor
	SystemPrompt string // defaults to the embedded case prompt
	Outputs      home.Outputs
	ContentStart int
	MaxCases     int
	CasePages    int // pages read per case, default 1
	Workers      int // cases extracted concurrently, default 1
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
}

// CaseStage extracts a structured record for each discovered entry.
type CaseStage struct {
	reader       document.Reader
	extractor    *extract.Extractor
	prompt       string
	outputs      home.Outputs
	contentStart int
	maxCases     int
	casePages    int
	workers      int
	metrics      *metrics.Recorder
	logger       *slog.Logger
}

// NewCaseStage creates the case extraction stage.
func NewCaseStage(cfg CasesConfig) *CaseStage {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = casebrief.SystemPrompt
	}
	if cfg.CasePages < 1 {
		cfg.CasePages = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CaseStage{
		reader:       cfg.Reader,
		extractor:    cfg.Extractor,
		prompt:       cfg.SystemPrompt,
		outputs:      cfg.Outputs,
		contentStart: cfg.ContentStart,
		maxCases:     cfg.MaxCases,
		casePages:    cfg.CasePages,
		workers:      cfg.Workers,
		metrics:      cfg.Metrics,
		logger:       logger.With("stage", StageCases),
	}
}

func (s *CaseStage) Name() string           { return StageCases }
func (s *CaseStage) Dependencies() []string { return []string{StageContents} }
func (s *CaseStage) Description() string {
	return "Extract a structured record for each discovered case"
}

// Run extracts cases for the entries discovered earlier in the run.
func (s *CaseStage) Run(ctx context.Context, st *State) error {
	if st.Contents == nil {
		return fmt.Errorf("%s stage requires a table of cases", StageCases)
	}
	res, err := s.Extract(ctx, st.DocumentPath, st.Contents, s.contentStart, s.maxCases)
	if res != nil {
		st.Cases = res
	}
	return err
}

// caseResult is the outcome for the entry at one index of the contents list.
type caseResult struct {
	done    bool
	records []CaseRecord
}

// Extract processes at most maxCases entries in contents order. Entries whose
// page cannot be read or whose extraction yields no data are skipped. Records
// whose title differs from the entry's are dropped. Results are persisted to
// cases.json in contents order, including when cancellation stops the run.
func (s *CaseStage) Extract(ctx context.Context, path string, toc *ContentsResult, contentStart, maxCases int) (*ExtractionResult, error) {
	entries := toc.Cases
	if maxCases < len(entries) {
		if maxCases < 0 {
			maxCases = 0
		}
		s.metrics.Add(metrics.EntriesCapped, len(entries)-maxCases)
		entries = entries[:maxCases]
	}

	s.logger.Info("extracting cases", "entries", len(entries), "discovered", len(toc.Cases), "workers", s.workers)

	results := make([]caseResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, entry := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			records, err := s.extractOne(gctx, path, i, entry, contentStart)
			if err != nil {
				return err
			}
			results[i] = caseResult{done: true, records: records}
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	// Single writer: merge in contents order once every worker is done
	result := NewExtractionResult()
	for _, r := range results {
		if r.done {
			result.Cases = append(result.Cases, r.records...)
		}
	}

	if err := writeJSON(s.outputs.CasesPath(), result); err != nil {
		return result, errors.Join(runErr, err)
	}
	s.logger.Info("wrote cases", "path", s.outputs.CasesPath(), "records", len(result.Cases))

	return result, runErr
}

// extractOne handles one entry. It returns an error only when the run is
// cancelled.
func (s *CaseStage) extractOne(ctx context.Context, path string, idx int, entry CaseEntry, contentStart int) ([]CaseRecord, error) {
	logger := s.logger.With("title", entry.Title, "entry", idx+1)
	s.metrics.Add(metrics.CasesAttempted, 1)

	absPage := contentStart + int(entry.Page) - 1
	if entry.Page < 1 || absPage < 1 {
		s.metrics.Add(metrics.CasesSkipped, 1)
		logger.Warn("skipping case with invalid page", "page", int(entry.Page))
		return nil, nil
	}

	logger.Info("reading case page", "page", absPage)
	pages, err := s.reader.Read(ctx, path, document.Span(absPage, s.casePages))
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, document.ErrPageRange):
		s.metrics.Add(metrics.CasesSkipped, 1)
		logger.Warn("skipping case outside document", "page", absPage, "error", err)
		return nil, nil
	default:
		// The document opened at the start of the run; one bad page only
		// costs this case.
		s.metrics.Add(metrics.CasesSkipped, 1)
		logger.Warn("skipping case with unreadable page", "page", absPage, "error", err)
		return nil, nil
	}

	var parsed ExtractionResult
	out := s.extractor.Extract(ctx, extract.Request{
		Text:         document.Join(pages),
		SystemPrompt: casebrief.ForTitle(s.prompt, entry.Title),
		Shape:        casebrief.Shape,
		Decode: func(data json.RawMessage) error {
			parsed = ExtractionResult{}
			return json.Unmarshal(data, &parsed)
		},
		Stage:   StageCases,
		ItemKey: fmt.Sprintf("case_%04d", idx+1),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !out.OK() {
		s.metrics.Add(metrics.CasesSkipped, 1)
		logger.Warn("case did not return good data", "reason", out.Reason, "attempts", out.Attempts)
		return nil, nil
	}

	kept := MatchTitle(parsed.Cases, entry.Title)
	s.metrics.Add(metrics.RecordsFiltered, len(parsed.Cases)-len(kept))
	if len(kept) == 0 {
		s.metrics.Add(metrics.CasesSkipped, 1)
		logger.Debug("no record matched title", "records", len(parsed.Cases))
		return nil, nil
	}
	s.metrics.Add(metrics.CasesExtracted, 1)
	logger.Info("extracted case", "records", len(kept))
	return kept, nil
}

// MatchTitle keeps records whose title equals title exactly.
func MatchTitle(records []CaseRecord, title string) []CaseRecord {
	var kept []CaseRecord
	for _, r := range records {
		if r.Title == title {
			kept = append(kept, r)
		}
	}
	return kept
}
