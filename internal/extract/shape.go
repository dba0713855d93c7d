package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Shape checks that a completion is well-formed JSON with the expected
// top-level structure.
type Shape struct {
	name   string
	schema *jsonschema.Schema
}

// NewShape compiles a JSON schema.
func NewShape(name string, schemaJSON []byte) (*Shape, error) {
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load %s schema: %w", name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
	}
	return &Shape{name: name, schema: schema}, nil
}

// MustShape is NewShape for package-level schemas known to be valid.
func MustShape(name string, schemaJSON []byte) *Shape {
	s, err := NewShape(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the shape's name.
func (s *Shape) Name() string {
	return s.name
}

// Check parses text and validates it. Failures wrap ErrMalformed.
func (s *Shape) Check(text string) (json.RawMessage, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s != nil && s.schema != nil {
		if err := s.schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("%w: does not match %s schema: %v", ErrMalformed, s.name, err)
		}
	}
	return json.RawMessage(text), nil
}

// CasesList accepts any object carrying a "cases" array.
var CasesList = MustShape("cases_list", []byte(`{
	"type": "object",
	"required": ["cases"],
	"properties": {
		"cases": {"type": "array"}
	}
}`))
