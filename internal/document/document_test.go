package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeText(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte(strings.Join(pages, PageBreak)), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextReader_Read(t *testing.T) {
	path := writeText(t, "one", "two", "three", "four")
	r := &TextReader{}
	ctx := context.Background()

	tests := []struct {
		name    string
		pages   PageRange
		want    []string
		wantErr error
	}{
		{"whole document", All, []string{"one\n", "two\n", "three\n", "four\n"}, nil},
		{"single page", Pages(2, 2), []string{"two\n"}, nil},
		{"inclusive range", Pages(2, 3), []string{"two\n", "three\n"}, nil},
		{"open stop", PageRange{Start: 3}, []string{"three\n", "four\n"}, nil},
		{"span", Span(4, 1), []string{"four\n"}, nil},
		{"past end", Pages(4, 5), nil, ErrPageRange},
		{"zero based", Pages(-1, 1), nil, ErrPageRange},
		{"inverted", Pages(3, 2), nil, ErrPageRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Read(ctx, path, tt.pages)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Read() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextReader_PageCount(t *testing.T) {
	r := &TextReader{}
	ctx := context.Background()

	t.Run("trailing form feed", func(t *testing.T) {
		path := writeText(t, "a", "b", "")
		n, err := r.PageCount(ctx, path)
		if err != nil {
			t.Fatalf("PageCount() error = %v", err)
		}
		if n != 2 {
			t.Errorf("PageCount() = %d, want 2", n)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.PageCount(ctx, filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, ErrUnreadable) {
			t.Errorf("expected ErrUnreadable, got %v", err)
		}
	})
}

func TestPDFReader_Unreadable(t *testing.T) {
	r := &PDFReader{}
	ctx := context.Background()
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.pdf")
	if err := os.WriteFile(garbage, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.pdf"), garbage} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if _, err := r.PageCount(ctx, path); !errors.Is(err, ErrUnreadable) {
				t.Errorf("PageCount() expected ErrUnreadable, got %v", err)
			}
			if _, err := r.Read(ctx, path, All); !errors.Is(err, ErrUnreadable) {
				t.Errorf("Read() expected ErrUnreadable, got %v", err)
			}
		})
	}
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath("book.TXT").(*TextReader); !ok {
		t.Error("expected TextReader for .txt")
	}
	if _, ok := ForPath("book.pdf").(*PDFReader); !ok {
		t.Error("expected PDFReader for .pdf")
	}
}
