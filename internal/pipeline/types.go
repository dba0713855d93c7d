package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PageNumber is a 1-based page number relative to the table of contents.
// Models return it as a number or a string of digits; both decode.
type PageNumber int

// UnmarshalJSON accepts 12, 12.0 and "12".
func (p *PageNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("page %q is not a number", s)
		}
		*p = PageNumber(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("page %s is not a number", data)
	}
	*p = PageNumber(int(f))
	return nil
}

// CaseEntry is one line of the table of contents.
type CaseEntry struct {
	Title string     `json:"title"`
	Page  PageNumber `json:"page"`
}

// CaseRecord is the structured brief of one case. Null fields from the
// model decode as empty strings.
type CaseRecord struct {
	Title      string `json:"title"`
	Citation   string `json:"citation"`
	Facts      string `json:"facts"`
	Issue      string `json:"issue"`
	Held       string `json:"held"`
	Discussion string `json:"discussion"`
	Summary    string `json:"summary,omitempty"`
}

// ContentsResult is the persisted table of cases.
type ContentsResult struct {
	Cases []CaseEntry `json:"cases"`
}

// ExtractionResult is the persisted set of case records.
type ExtractionResult struct {
	Cases []CaseRecord `json:"cases"`
}

// NewContentsResult returns an empty result that encodes as {"cases": []}.
func NewContentsResult() *ContentsResult {
	return &ContentsResult{Cases: make([]CaseEntry, 0)}
}

// NewExtractionResult returns an empty result that encodes as {"cases": []}.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{Cases: make([]CaseRecord, 0)}
}
