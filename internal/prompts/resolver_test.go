package prompts

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/casebook/internal/prompts/casebrief"
	"github.com/jackzampolin/casebook/internal/prompts/contents"
)

func testResolver() *Resolver {
	return Default(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolver_Embedded(t *testing.T) {
	r := testResolver()

	for _, key := range []string{contents.Key, casebrief.Key, casebrief.SummaryKey} {
		got, err := r.Resolve(key)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", key, err)
		}
		if got.IsOverride || got.Source != "embedded" {
			t.Errorf("expected embedded prompt for %s, got %+v", key, got)
		}
		if got.Hash != HashText(got.Text) {
			t.Errorf("hash mismatch for %s", key)
		}
	}

	if _, err := r.Resolve("nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestResolver_Override(t *testing.T) {
	r := testResolver()
	dir := t.TempDir()

	path := filepath.Join(dir, "contents.txt")
	if err := os.WriteFile(path, []byte("  custom prompt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r.Override(contents.Key, path)
	got, err := r.Resolve(contents.Key)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.IsOverride || got.Text != "custom prompt" || got.Source != path {
		t.Errorf("unexpected override: %+v", got)
	}

	t.Run("missing file", func(t *testing.T) {
		r.Override(casebrief.Key, filepath.Join(dir, "missing.txt"))
		if _, err := r.Resolve(casebrief.Key); err == nil {
			t.Error("expected error for missing override file")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.txt")
		os.WriteFile(empty, []byte("\n\n"), 0o644)
		r.Override(casebrief.SummaryKey, empty)
		if _, err := r.Resolve(casebrief.SummaryKey); err == nil {
			t.Error("expected error for empty override file")
		}
	})

	t.Run("cleared", func(t *testing.T) {
		r.Override(contents.Key, "")
		got, err := r.Resolve(contents.Key)
		if err != nil || got.IsOverride {
			t.Errorf("expected embedded after clearing, got %+v, %v", got, err)
		}
	})
}

func TestForTitle(t *testing.T) {
	got := casebrief.ForTitle("base", "Smith v. Jones")
	if !strings.HasPrefix(got, "base") || !strings.HasSuffix(got, "The name/title of this case is (Smith v. Jones).") {
		t.Errorf("ForTitle() = %q", got)
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) error
		text  string
		ok    bool
	}{
		{"contents integer page", checkWith(contents.Shape.Check), `{"cases": [{"title": "A", "page": 1}]}`, true},
		{"contents string page", checkWith(contents.Shape.Check), `{"cases": [{"title": "A", "page": "12"}]}`, true},
		{"contents roman page", checkWith(contents.Shape.Check), `{"cases": [{"title": "A", "page": "ix"}]}`, false},
		{"contents missing page", checkWith(contents.Shape.Check), `{"cases": [{"title": "A"}]}`, false},
		{"contents missing key", checkWith(contents.Shape.Check), `{"entries": []}`, false},
		{"case full", checkWith(casebrief.Shape.Check), `{"cases": [{"title": "A", "citation": "1 U.S. 1", "facts": "", "issue": null, "held": "", "discussion": ""}]}`, true},
		{"case title only", checkWith(casebrief.Shape.Check), `{"cases": [{"title": "A"}]}`, true},
		{"case no title", checkWith(casebrief.Shape.Check), `{"cases": [{"facts": "x"}]}`, false},
		{"case numeric facts", checkWith(casebrief.Shape.Check), `{"cases": [{"title": "A", "facts": 3}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.text)
			if (err == nil) != tt.ok {
				t.Errorf("check(%s) error = %v, want ok=%v", tt.text, err, tt.ok)
			}
		})
	}
}

func checkWith[T any](fn func(string) (T, error)) func(string) error {
	return func(s string) error {
		_, err := fn(s)
		return err
	}
}
