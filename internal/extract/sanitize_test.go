package extract

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"cases": []}`, `{"cases": []}`},
		{"json fence", "```json\n{\"cases\": []}\n```", `{"cases": []}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"uppercase tag", "```JSON\n{\"a\": 1}```", `{"a": 1}`},
		{"surrounding whitespace", "  \n\t{\"a\": 1}\n  ", `{"a": 1}`},
		{"nested fences", "```json\n```json\n{}\n```\n```", `{}`},
		{"interior fence untouched", "{\"code\": \"```x```\"}", "{\"code\": \"```x```\"}"},
		{"interior whitespace untouched", "{\"a\":  \n 1}", "{\"a\":  \n 1}"},
		{"jsonl tag", "```jsonl\n{}\n```", "{}"},
		{"python tag", "```python\n{\"a\": 1}\n```", `{"a": 1}`},
		{"tag with padding", "``` json5 \n[1]\n```", "[1]"},
		{"json on fence line", "```{\"a\": 1}\n```", `{"a": 1}`},
		{"json tag then object on same line", "```json {\"a\": 1}```", `{"a": 1}`},
		{"empty", "", ""},
		{"only fences", "``````", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"```",
		"```json",
		"``` ```json {} ``` ```",
		"```json\n{\"cases\": [{\"title\": \"A\", \"page\": 1}]}\n```",
		"Here is the JSON:\n```json\n{}\n```",
		"   ```\n\n```json\n[]\n```   ",
		"{\"x\": \"```\"}```",
		"json```",
		"```jsonl\n```python\n{}\n```",
		"```c++\n",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
