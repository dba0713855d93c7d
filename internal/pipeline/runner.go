package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/casebook/internal/config"
	"github.com/jackzampolin/casebook/internal/document"
	"github.com/jackzampolin/casebook/internal/extract"
	"github.com/jackzampolin/casebook/internal/home"
	"github.com/jackzampolin/casebook/internal/metrics"
	"github.com/jackzampolin/casebook/internal/prompts"
	"github.com/jackzampolin/casebook/internal/prompts/casebrief"
	"github.com/jackzampolin/casebook/internal/prompts/contents"
	"github.com/jackzampolin/casebook/internal/providers"
)

// Runner wires the stages for one run over one document.
type Runner struct {
	cfg      *config.Config
	reader   document.Reader
	outputs  home.Outputs
	registry *Registry
	metrics  *metrics.Recorder
	logger   *slog.Logger
	runID    string
}

// Summary reports what a run did.
type Summary struct {
	RunID        string                 `json:"run_id" yaml:"run_id"`
	Document     string                 `json:"document" yaml:"document"`
	PageCount    int                    `json:"page_count" yaml:"page_count"`
	Stages       []string               `json:"stages" yaml:"stages"`
	TableOfCases string                 `json:"table_of_cases,omitempty" yaml:"table_of_cases,omitempty"`
	CasesFile    string                 `json:"cases_file,omitempty" yaml:"cases_file,omitempty"`
	Entries      int                    `json:"entries" yaml:"entries"`
	Records      int                    `json:"records" yaml:"records"`
	Counters     map[string]int         `json:"counters" yaml:"counters"`
	Calls        metrics.Summary        `json:"calls" yaml:"calls"`
	ByStage      []metrics.StageSummary `json:"by_stage,omitempty" yaml:"by_stage,omitempty"`
	Duration     time.Duration          `json:"duration" yaml:"duration"`
}

// NewRunner builds the stages from cfg. Prompt override files are read here
// so a bad path fails before any document is touched.
func NewRunner(cfg *config.Config, client providers.LLMClient, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)
	rec := metrics.NewRecorder(runID)

	resolver := prompts.Default(logger)
	resolver.Override(contents.Key, cfg.ContentsPromptFile)
	caseKey := casebrief.Key
	if cfg.Summarize {
		caseKey = casebrief.SummaryKey
	}
	resolver.Override(caseKey, cfg.CasePromptFile)

	contentsPrompt, err := resolver.Resolve(contents.Key)
	if err != nil {
		return nil, err
	}
	casePrompt, err := resolver.Resolve(caseKey)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(extract.Config{
		Client:         client,
		MaxAttempts:    cfg.MaxAttempts,
		AttemptTimeout: cfg.AttemptTimeout,
		RetryDelay:     cfg.RetryDelay,
		Metrics:        rec,
		Logger:         logger,
	})

	reader := document.ForPath(cfg.InputPath)
	outputs := home.NewOutputs(cfg.OutputDir)

	registry := NewRegistry()
	stages := []Stage{
		NewContentsStage(ContentsConfig{
			Reader:       reader,
			Extractor:    extractor,
			SystemPrompt: contentsPrompt.Text,
			Outputs:      outputs,
			TableStart:   cfg.TableStartPage,
			TableStop:    cfg.TableStopPage,
			Metrics:      rec,
			Logger:       logger,
		}),
		NewCaseStage(CasesConfig{
			Reader:       reader,
			Extractor:    extractor,
			SystemPrompt: casePrompt.Text,
			Outputs:      outputs,
			ContentStart: cfg.ContentStartPage,
			MaxCases:     cfg.MaxCases,
			CasePages:    cfg.CasePages,
			Workers:      cfg.Workers,
			Metrics:      rec,
			Logger:       logger,
		}),
	}
	for _, s := range stages {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	return &Runner{
		cfg:      cfg,
		reader:   reader,
		outputs:  outputs,
		registry: registry,
		metrics:  rec,
		logger:   logger,
		runID:    runID,
	}, nil
}

// RunID returns the identifier stamped on this run's logs and summary.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the named stages (all when none are named). The document is
// opened before the output directory is created, so an unreadable document
// leaves existing outputs untouched. When the cases stage runs without the
// contents stage, the table of cases is loaded from a previous run.
func (r *Runner) Run(ctx context.Context, stageNames ...string) (*Summary, error) {
	start := time.Now()

	ordered, err := r.registry.Ordered(stageNames...)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ordered))
	for i, s := range ordered {
		names[i] = s.Name()
	}

	path := r.cfg.InputPath
	count, err := r.reader.PageCount(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	r.logger.Info("opened document", "path", path, "pages", count, "stages", names)

	st := &State{DocumentPath: path, PageCount: count}

	if slices.Contains(names, StageContents) {
		if r.cfg.TableStopPage > count {
			return nil, fmt.Errorf("%w: table of contents ends at page %d but %s has %d pages",
				document.ErrPageRange, r.cfg.TableStopPage, path, count)
		}
	} else if slices.Contains(names, StageCases) {
		st.Contents, err = LoadContents(r.outputs.TableOfCasesPath())
		if err != nil {
			return nil, err
		}
	}

	if err := r.outputs.EnsureExists(); err != nil {
		return nil, err
	}

	var runErr error
	for _, s := range ordered {
		r.logger.Info("running stage", "stage", s.Name(), "description", s.Description())
		if runErr = s.Run(ctx, st); runErr != nil {
			r.logger.Error("stage failed", "stage", s.Name(), "error", runErr)
			break
		}
	}

	summary := r.summarize(st, names, count, time.Since(start))
	return summary, runErr
}

func (r *Runner) summarize(st *State, names []string, count int, elapsed time.Duration) *Summary {
	s := &Summary{
		RunID:     r.runID,
		Document:  st.DocumentPath,
		PageCount: count,
		Stages:    names,
		Counters:  r.metrics.Counters(),
		Calls:     r.metrics.Summary(),
		ByStage:   r.metrics.ByStage(),
		Duration:  elapsed.Round(time.Millisecond),
	}
	if st.Contents != nil {
		s.Entries = len(st.Contents.Cases)
		if slices.Contains(names, StageContents) {
			s.TableOfCases = r.outputs.TableOfCasesPath()
		}
	}
	if st.Cases != nil {
		s.Records = len(st.Cases.Cases)
		s.CasesFile = r.outputs.CasesPath()
	}
	return s
}
