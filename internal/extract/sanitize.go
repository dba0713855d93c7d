package extract

import "strings"

const fence = "```"

// Sanitize strips code fences and surrounding whitespace that models wrap
// around JSON. Interior content is never touched. Sanitize is idempotent.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		prev := s
		if strings.HasPrefix(s, fence) {
			s = s[len(fence):]
			// Drop the info string ("json", "jsonl", "python") on the opening fence line
			if line, rest, ok := strings.Cut(s, "\n"); ok && isInfoString(line) {
				s = rest
			} else if tag := leadingWord(s); strings.EqualFold(tag, "json") {
				s = s[len(tag):]
			}
		}
		s = strings.TrimSuffix(s, fence)
		s = strings.TrimSpace(s)
		if s == prev {
			return s
		}
	}
}

// isInfoString reports whether line is a single language tag rather than
// the start of the JSON itself.
func isInfoString(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, " \t{[\"") {
		return false
	}
	return line[0] < '0' || line[0] > '9'
}

func leadingWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}
