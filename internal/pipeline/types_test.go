package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPageNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    PageNumber
		wantErr bool
	}{
		{`12`, 12, false},
		{`12.0`, 12, false},
		{`"7"`, 7, false},
		{`" 7 "`, 7, false},
		{`null`, 0, false},
		{`"ix"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p PageNumber
			err := json.Unmarshal([]byte(tt.in), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && p != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, p, tt.want)
			}
		})
	}

	data, _ := json.Marshal(CaseEntry{Title: "A", Page: 3})
	if string(data) != `{"title":"A","page":3}` {
		t.Errorf("page should encode as a number: %s", data)
	}
}

func TestCaseRecord_JSON(t *testing.T) {
	data, _ := json.Marshal(CaseRecord{Title: "A"})
	if strings.Contains(string(data), "summary") {
		t.Errorf("empty summary should be omitted: %s", data)
	}
	for _, field := range []string{"title", "citation", "facts", "issue", "held", "discussion"} {
		if !strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("expected field %s in %s", field, data)
		}
	}
}

func TestWriteJSON_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	if err := os.WriteFile(path, []byte("old contents that are longer than the new ones"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := writeJSON(path, NewExtractionResult()); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "{\n  \"cases\": []\n}\n" {
		t.Errorf("unexpected file contents: %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_of_cases.json")
	os.WriteFile(path, []byte(`{"cases": [{"title": "A", "page": "4"}]}`), 0o644)

	res, err := LoadContents(path)
	if err != nil {
		t.Fatalf("LoadContents() error = %v", err)
	}
	if len(res.Cases) != 1 || res.Cases[0].Page != 4 {
		t.Errorf("unexpected contents: %+v", res)
	}

	if _, err := LoadContents(path + ".missing"); err == nil {
		t.Error("expected error for missing file")
	}
}
