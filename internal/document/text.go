package document

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PageBreak separates pages in plain-text documents.
const PageBreak = "\f"

// TextReader reads plain-text documents whose pages are separated by form feeds.
type TextReader struct{}

func (r *TextReader) load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	pages := strings.Split(string(data), PageBreak)
	// A trailing form feed terminates the last page rather than starting a new one
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}

// PageCount returns the number of form-feed separated pages.
func (r *TextReader) PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	pages, err := r.load(path)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// Read returns the requested pages.
func (r *TextReader) Read(ctx context.Context, path string, pages PageRange) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := r.load(path)
	if err != nil {
		return nil, err
	}
	start, stop, err := pages.resolve(len(all))
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, stop-start+1)
	for _, p := range all[start-1 : stop] {
		texts = append(texts, withNewline(strings.TrimPrefix(p, "\n")))
	}
	return texts, nil
}

var _ Reader = (*TextReader)(nil)
