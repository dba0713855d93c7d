package casebrief

import "github.com/jackzampolin/casebook/internal/extract"

// Schema describes a case completion. Only title is required so that a
// partially filled record still reaches the title filter.
var Schema = []byte(`{
	"type": "object",
	"required": ["cases"],
	"properties": {
		"cases": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title"],
				"properties": {
					"title": {"type": "string"},
					"citation": {"type": ["string", "null"]},
					"facts": {"type": ["string", "null"]},
					"issue": {"type": ["string", "null"]},
					"held": {"type": ["string", "null"]},
					"discussion": {"type": ["string", "null"]},
					"summary": {"type": ["string", "null"]}
				}
			}
		}
	}
}`)

// Shape validates case completions.
var Shape = extract.MustShape("cases", Schema)
