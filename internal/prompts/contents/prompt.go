// Package contents holds the prompt and schema for table-of-contents discovery.
package contents

// Key identifies this prompt in logs and overrides.
const Key = "stages.contents.system"

// SystemPrompt asks for a flat list of case titles with their page numbers.
const SystemPrompt = `You will be given one page of a table of contents from a legal reference book.
Extract every case listed on the page together with its page number.

This is a cumulative list of all the cases, so do NOT produce sub-lists or levels.
Do not include section headers or chapter names.

Return the case name, and only the name of the case, in the list "cases":

{
  "cases": [
    {
      "title": "",
      "page": 123
    }
  ]
}

Copy each title exactly as printed. "page" is the number printed next to the title.
If the page lists no cases, return {"cases": []}.

Only respond with the JSON and only the JSON.`
