package api

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	RunID   string `json:"run_id" yaml:"run_id"`
	Records int    `json:"records" yaml:"records"`
}

func TestOutputTo(t *testing.T) {
	data := sample{RunID: "abc", Records: 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		want := "{\n  \"run_id\": \"abc\",\n  \"records\": 2\n}\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), "run_id: abc") || !strings.Contains(buf.String(), "records: 2") {
			t.Errorf("unexpected yaml: %q", buf.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := OutputTo(&bytes.Buffer{}, "xml", data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")

	if err := SetOutputFormat("json"); err != nil || GetOutputFormat() != OutputFormatJSON {
		t.Errorf("SetOutputFormat(json) = %v, format %s", err, GetOutputFormat())
	}
	if err := SetOutputFormat("toml"); err == nil {
		t.Error("expected error for toml")
	}
	if GetOutputFormat() != OutputFormatJSON {
		t.Error("invalid format should not change the current one")
	}
}
