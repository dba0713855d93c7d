package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/casebook/internal/api"
	"github.com/jackzampolin/casebook/internal/document"
)

var (
	pagesStart int
	pagesStop  int
	pagesJSON  bool
)

// pageText is one page in structured output.
type pageText struct {
	Page int    `json:"page" yaml:"page"`
	Text string `json:"text" yaml:"text"`
}

var pagesCmd = &cobra.Command{
	Use:   "pages <input>",
	Short: "Print the text of a page range",
	Long: `Print page texts as the extractor sees them. Useful for finding
table_start_page, table_stop_page and content_start_page.

Examples:
  casebook pages book.pdf --start 5 --stop 6
  casebook pages book.pdf --start 19 --stop 19 --structured -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		reader := document.ForPath(path)

		count, err := reader.PageCount(cmd.Context(), path)
		if err != nil {
			return err
		}
		rng := document.Pages(pagesStart, pagesStop)
		texts, err := reader.Read(cmd.Context(), path, rng)
		if err != nil {
			return err
		}

		first := pagesStart
		if first == 0 {
			first = 1
		}
		if pagesJSON {
			out := make([]pageText, len(texts))
			for i, t := range texts {
				out[i] = pageText{Page: first + i, Text: t}
			}
			return api.Output(out)
		}

		w := cmd.OutOrStdout()
		for i, t := range texts {
			fmt.Fprintf(w, "--- page %d of %d ---\n", first+i, count)
			fmt.Fprint(w, strings.TrimRight(t, "\n")+"\n")
		}
		return nil
	},
}

func init() {
	pagesCmd.Flags().IntVar(&pagesStart, "start", 0, "first page (1-based, default 1)")
	pagesCmd.Flags().IntVar(&pagesStop, "stop", 0, "last page (inclusive, default last)")
	pagesCmd.Flags().BoolVar(&pagesJSON, "structured", false, "print pages using --output format")
	rootCmd.AddCommand(pagesCmd)
}
