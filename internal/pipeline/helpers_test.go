package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jackzampolin/casebook/internal/document"
	"github.com/jackzampolin/casebook/internal/extract"
	"github.com/jackzampolin/casebook/internal/home"
	"github.com/jackzampolin/casebook/internal/metrics"
	"github.com/jackzampolin/casebook/internal/providers"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeBook writes a plain-text book with n pages; page i reads "page i".
// Extra text for a page can be supplied in content.
func writeBook(t *testing.T, n int, content map[int]string) string {
	t.Helper()
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf("page %d\n%s", i+1, content[i+1])
	}
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte(strings.Join(pages, document.PageBreak)), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// countingReader records every range read.
type countingReader struct {
	document.Reader
	mu    sync.Mutex
	reads []document.PageRange
}

func (r *countingReader) Read(ctx context.Context, path string, pages document.PageRange) ([]string, error) {
	r.mu.Lock()
	r.reads = append(r.reads, pages)
	r.mu.Unlock()
	return r.Reader.Read(ctx, path, pages)
}

func (r *countingReader) Reads() []document.PageRange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]document.PageRange(nil), r.reads...)
}

func newExtractor(client providers.LLMClient, rec *metrics.Recorder) *extract.Extractor {
	return extract.New(extract.Config{
		Client:      client,
		MaxAttempts: 3,
		Metrics:     rec,
		Logger:      quietLogger(),
	})
}

func testOutputs(t *testing.T) home.Outputs {
	t.Helper()
	out := home.NewOutputs(filepath.Join(t.TempDir(), "outputs"))
	if err := out.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	return out
}

// userText returns the page text sent with a request.
func userText(req *providers.ChatRequest) string {
	for _, m := range req.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

func systemText(req *providers.ChatRequest) string {
	for _, m := range req.Messages {
		if m.Role == "system" {
			return m.Content
		}
	}
	return ""
}

func caseJSON(titles ...string) string {
	var res ExtractionResult
	for _, title := range titles {
		res.Cases = append(res.Cases, CaseRecord{
			Title:      title,
			Citation:   "1 Rep. 1",
			Facts:      "facts of " + title,
			Issue:      "issue",
			Held:       "held",
			Discussion: "discussion",
		})
	}
	data, _ := json.Marshal(res)
	return string(data)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
}
