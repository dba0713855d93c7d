// Package document reads page texts from paginated source documents.
package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnreadable means the path does not resolve to a readable document.
	ErrUnreadable = errors.New("document unreadable")

	// ErrPageRange means the requested pages fall outside the document.
	ErrPageRange = errors.New("page range out of bounds")
)

// PageRange is a 1-based inclusive page range. Zero Start means page 1;
// zero Stop means the last page. The zero value selects the whole document.
type PageRange struct {
	Start int
	Stop  int
}

// All selects every page.
var All = PageRange{}

// Pages returns the range [start, stop].
func Pages(start, stop int) PageRange {
	return PageRange{Start: start, Stop: stop}
}

// Span returns n pages beginning at start.
func Span(start, n int) PageRange {
	if n < 1 {
		n = 1
	}
	return PageRange{Start: start, Stop: start + n - 1}
}

func (r PageRange) String() string {
	if r == All {
		return "all"
	}
	return fmt.Sprintf("%d-%d", r.Start, r.Stop)
}

// resolve clamps the open ends against total and checks bounds.
func (r PageRange) resolve(total int) (start, stop int, err error) {
	start, stop = r.Start, r.Stop
	if start == 0 {
		start = 1
	}
	if stop == 0 {
		stop = total
	}
	if start < 1 || stop < start || stop > total {
		return 0, 0, fmt.Errorf("%w: pages %d-%d of %d", ErrPageRange, start, stop, total)
	}
	return start, stop, nil
}

// Reader extracts page texts. Each returned element is one page's text
// ending in a newline, in page order.
type Reader interface {
	Read(ctx context.Context, path string, pages PageRange) ([]string, error)

	// PageCount opens the document and reports its length. It fails with
	// ErrUnreadable for a missing or corrupt document.
	PageCount(ctx context.Context, path string) (int, error)
}

// ForPath picks a reader by file extension. Anything that isn't .txt is
// treated as PDF.
func ForPath(path string) Reader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return &TextReader{}
	default:
		return &PDFReader{}
	}
}

// Join concatenates page texts, preserving the page breaks.
func Join(pages []string) string {
	return strings.Join(pages, "")
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
