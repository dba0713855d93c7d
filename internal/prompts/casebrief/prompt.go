// Package casebrief holds the prompts and schema for per-case extraction.
package casebrief

import "fmt"

const (
	Key        = "stages.cases.system"
	SummaryKey = "stages.cases.summary"
)

// SystemPrompt asks for the structured brief of one case.
const SystemPrompt = `You will be given the text of pages from a legal reference book.
Analyze the text and convert the case it describes into the format below.

The name of the case (title) will be provided. The text pertains to that case
and possibly others. Return only one object inside "cases", and that object MUST be complete.

Each case is comprised of: title, citation, facts, issue, held, discussion.

{
  "cases": [
    {
      "title": "",
      "citation": "",
      "facts": "",
      "issue": "",
      "held": "",
      "discussion": ""
    }
  ]
}

Use the provided title exactly as given.

Only respond with the JSON and only the JSON.`

// SummaryPrompt is SystemPrompt plus a brief summary field.
const SummaryPrompt = `You will be given the text of pages from a legal reference book.
Analyze the text and convert the case it describes into the format below.

The name of the case (title) will be provided. The text pertains to that case
and possibly others. Return only one object inside "cases", and that object MUST be complete.

Each case is comprised of: title, citation, facts, issue, held, discussion and a very brief summary.
Summarize the case into "summary" in two or three sentences.

{
  "cases": [
    {
      "title": "",
      "citation": "",
      "facts": "",
      "issue": "",
      "held": "",
      "discussion": "",
      "summary": ""
    }
  ]
}

Use the provided title exactly as given.

Only respond with the JSON and only the JSON.`

// ForTitle appends the clause naming the expected case.
func ForTitle(base, title string) string {
	return fmt.Sprintf("%s\n\nThe name/title of this case is (%s).", base, title)
}
