package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/casebook/internal/document"
	"github.com/jackzampolin/casebook/internal/extract"
	"github.com/jackzampolin/casebook/internal/home"
	"github.com/jackzampolin/casebook/internal/metrics"
	"github.com/jackzampolin/casebook/internal/prompts/contents"
)

// ContentsConfig configures a ContentsStage.
type ContentsConfig struct {
	Reader       document.Reader
	Extractor    *extract.Extractor
	SystemPrompt string // defaults to the embedded contents prompt
	Outputs      home.Outputs
	TableStart   int
	TableStop    int
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
}

// ContentsStage turns the table-of-contents pages into a list of case entries.
type ContentsStage struct {
	reader     document.Reader
	extractor  *extract.Extractor
	prompt     string
	outputs    home.Outputs
	tableStart int
	tableStop  int
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewContentsStage creates the contents discovery stage.
func NewContentsStage(cfg ContentsConfig) *ContentsStage {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = contents.SystemPrompt
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentsStage{
		reader:     cfg.Reader,
		extractor:  cfg.Extractor,
		prompt:     cfg.SystemPrompt,
		outputs:    cfg.Outputs,
		tableStart: cfg.TableStart,
		tableStop:  cfg.TableStop,
		metrics:    cfg.Metrics,
		logger:     logger.With("stage", StageContents),
	}
}

func (s *ContentsStage) Name() string           { return StageContents }
func (s *ContentsStage) Dependencies() []string { return nil }
func (s *ContentsStage) Description() string {
	return "Discover case titles and pages from the table of contents"
}

// Run discovers entries over the configured table range.
func (s *ContentsStage) Run(ctx context.Context, st *State) error {
	res, err := s.Discover(ctx, st.DocumentPath, s.tableStart, s.tableStop)
	if res != nil {
		st.Contents = res
	}
	return err
}

// Discover reads pages [start, stop] and extracts entries from each page on
// its own. A page that yields no data is skipped. The accumulated result is
// persisted to table_of_cases.json, including after a cancellation.
func (s *ContentsStage) Discover(ctx context.Context, path string, start, stop int) (*ContentsResult, error) {
	pages, err := s.reader.Read(ctx, path, document.Pages(start, stop))
	if err != nil {
		return nil, fmt.Errorf("failed to read table of contents pages %d-%d: %w", start, stop, err)
	}

	s.logger.Info("discovering cases", "pages", len(pages), "start", start, "stop", stop)

	result := NewContentsResult()
	var aborted error
	for i, text := range pages {
		pageNum := start + i
		var parsed ContentsResult
		out := s.extractor.Extract(ctx, extract.Request{
			Text:         text,
			SystemPrompt: s.prompt,
			Shape:        contents.Shape,
			Decode: func(data json.RawMessage) error {
				parsed = ContentsResult{}
				return json.Unmarshal(data, &parsed)
			},
			Stage:   StageContents,
			ItemKey: fmt.Sprintf("page_%04d", pageNum),
		})
		if err := ctx.Err(); err != nil {
			aborted = err
			break
		}
		if !out.OK() {
			s.metrics.Add(metrics.PagesSkipped, 1)
			s.logger.Warn("page did not return good data", "page", pageNum, "reason", out.Reason, "attempts", out.Attempts)
			continue
		}

		result.Cases = append(result.Cases, parsed.Cases...)
		s.metrics.Add(metrics.PagesProcessed, 1)
		s.metrics.Add(metrics.EntriesFound, len(parsed.Cases))
		s.logger.Info("processed contents page", "page", pageNum, "entries", len(parsed.Cases))
	}

	if err := writeJSON(s.outputs.TableOfCasesPath(), result); err != nil {
		return result, err
	}
	s.logger.Info("wrote table of cases", "path", s.outputs.TableOfCasesPath(), "entries", len(result.Cases))

	return result, aborted
}
