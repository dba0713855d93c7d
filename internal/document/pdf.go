package document

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFReader reads PDFs. pdfcpu validates the file and counts pages;
// ledongthuc/pdf pulls the text layer.
type PDFReader struct{}

// PageCount returns the number of pages, or ErrUnreadable.
func (r *PDFReader) PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return n, nil
}

// Read returns the plain text of each page in the range.
func (r *PDFReader) Read(ctx context.Context, path string, pages PageRange) (texts []string, err error) {
	// ledongthuc/pdf panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			texts = nil
			err = fmt.Errorf("%w: %s: %v", ErrUnreadable, path, rec)
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	start, stop, err := pages.resolve(doc.NumPage())
	if err != nil {
		return nil, err
	}

	texts = make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "\n")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrUnreadable, i, err)
		}
		texts = append(texts, withNewline(text))
	}
	return texts, nil
}

var _ Reader = (*PDFReader)(nil)
