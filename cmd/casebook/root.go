package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/casebook/internal/api"
	"github.com/jackzampolin/casebook/internal/config"
	"github.com/jackzampolin/casebook/internal/home"
	"github.com/jackzampolin/casebook/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "casebook",
	Short: "Extract structured case briefs from legal reference books",
	Long: `Casebook turns a legal reference book into structured case records
using a language model as the extractor.

A run has two passes:
  - contents: read the table-of-contents pages and list every case with its page
  - cases:    read each listed case's page and extract title, citation, facts,
              issue, held and discussion

Results are written to table_of_cases.json and cases.json in the output directory.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.casebook/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "casebook home directory (default: ~/.casebook)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := api.SetOutputFormat(outputFormat); err != nil {
			return err
		}
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid --log-level %q", s)
	}
	return level, nil
}

// loadConfig reads config.yaml, CASEBOOK_* env vars and flag overrides.
func loadConfig(overrides map[string]any) (*config.Config, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path(), overrides)
	if err != nil {
		return nil, nil, err
	}
	cfg := mgr.Get()
	if cfg.OutputDir == "" {
		cfg.OutputDir = h.OutputsPath()
	}
	if used := mgr.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config", "path", used)
	}
	return cfg, h, nil
}
