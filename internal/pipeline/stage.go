// Package pipeline runs the two extraction passes over a document: contents
// discovery, then per-case extraction.
package pipeline

import (
	"context"
)

// Stage names.
const (
	StageContents = "contents"
	StageCases    = "cases"
)

// Stage is one pass of the pipeline.
type Stage interface {
	// Identity
	Name() string           // e.g., "contents", "cases"
	Dependencies() []string // Stages whose output this one reads

	Description() string

	// Run reads its inputs from st and stores its result there.
	Run(ctx context.Context, st *State) error
}

// State carries results between stages within one run.
type State struct {
	DocumentPath string
	PageCount    int

	Contents *ContentsResult
	Cases    *ExtractionResult
}
