package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jackzampolin/casebook/internal/api"
	"github.com/jackzampolin/casebook/internal/pipeline"
	"github.com/jackzampolin/casebook/internal/providers"
)

// runFlagKeys maps run flags to config keys. Only flags set on the command
// line override the config file and environment.
var runFlagKeys = map[string]string{
	"output-dir":      "output_dir",
	"content-start":   "content_start_page",
	"table-start":     "table_start_page",
	"table-stop":      "table_stop_page",
	"max-cases":       "max_cases",
	"backend":         "backend_variant",
	"model":           "model_id",
	"temperature":     "temperature",
	"max-attempts":    "max_attempts",
	"attempt-timeout": "attempt_timeout",
	"case-pages":      "case_pages",
	"workers":         "workers",
	"summarize":       "summarize",
	"rate-limit":      "rate_limit",
	"contents-prompt": "contents_prompt_file",
	"case-prompt":     "case_prompt_file",
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.String("output-dir", "", "directory for table_of_cases.json and cases.json")
	fs.Int("content-start", 0, "document page where case page 1 begins")
	fs.Int("table-start", 0, "first table-of-contents page")
	fs.Int("table-stop", 0, "last table-of-contents page")
	fs.Int("max-cases", 0, "maximum number of cases to extract")
	fs.String("backend", "", "completion backend: local or hosted")
	fs.String("model", "", "model identifier")
	fs.Float64("temperature", 0, "sampling temperature")
	fs.Int("max-attempts", 0, "completion attempts per page or case")
	fs.Duration("attempt-timeout", 0, "deadline for a single attempt (0 = none)")
	fs.Int("case-pages", 0, "pages read per case")
	fs.Int("workers", 0, "cases extracted concurrently")
	fs.Bool("summarize", false, "ask for a brief summary of each case")
	fs.Int("rate-limit", 0, "maximum completion requests per minute (0 = unlimited)")
	fs.String("contents-prompt", "", "file replacing the table-of-contents system prompt")
	fs.String("case-prompt", "", "file replacing the case extraction system prompt")
}

func flagOverrides(cmd *cobra.Command, args []string) map[string]any {
	overrides := make(map[string]any)
	if len(args) > 0 {
		overrides["input_path"] = args[0]
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := runFlagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})
	return overrides
}

// runStages loads config, builds the backend client and runs the named stages.
func runStages(cmd *cobra.Command, args []string, stages ...string) error {
	cfg, _, err := loadConfig(flagOverrides(cmd, args))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	logger := slog.Default()
	client, err := providers.New(cfg.ToProviderConfig())
	if err != nil {
		return err
	}
	logger.Info("using backend", "backend", client.Name(), "model", cfg.ModelID)

	runner, err := pipeline.NewRunner(cfg, client, logger)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(cmd.Context(), stages...)
	if summary != nil {
		if err := api.Output(summary); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Discover cases and extract a record for each",
	Long: `Run both passes over the input document.

The table-of-contents pages are read first and every case listed there is
written to table_of_cases.json. Then each case's page is read and the model is
asked for a structured record, written to cases.json.

Examples:
  casebook run book.pdf
  casebook run book.pdf --table-start 5 --table-stop 6 --content-start 19
  casebook run --backend hosted --model gpt-4o-mini --max-cases 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args)
	},
}

var contentsCmd = &cobra.Command{
	Use:   "contents [input]",
	Short: "Discover cases from the table of contents only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args, pipeline.StageContents)
	},
}

var casesCmd = &cobra.Command{
	Use:   "cases [input]",
	Short: "Extract cases listed in an existing table_of_cases.json",
	Long: `Extract case records using the table_of_cases.json already in the
output directory, e.g. after editing it by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args, pipeline.StageCases)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, contentsCmd, casesCmd} {
		addRunFlags(cmd.Flags())
		rootCmd.AddCommand(cmd)
	}
}
