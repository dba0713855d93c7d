package contents

import "github.com/jackzampolin/casebook/internal/extract"

// Schema describes a contents completion. Page numbers may come back as
// strings of digits; the pipeline accepts both.
var Schema = []byte(`{
	"type": "object",
	"required": ["cases"],
	"properties": {
		"cases": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "page"],
				"properties": {
					"title": {"type": "string"},
					"page": {
						"oneOf": [
							{"type": "integer", "minimum": 1},
							{"type": "string", "pattern": "^\\s*[0-9]+\\s*$"}
						]
					}
				}
			}
		}
	}
}`)

// Shape validates contents completions.
var Shape = extract.MustShape("table_of_cases", Schema)
