package config

import "time"

// Backend variants accepted by backend_variant.
const (
	BackendLocal  = "local"
	BackendHosted = "hosted"
)

// Config holds casebook run configuration.
// Loaded once at startup from config.yaml, CASEBOOK_* env vars, and flags.
type Config struct {
	InputPath string `mapstructure:"input_path" yaml:"input_path" json:"input_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`

	// Page layout of the source book (1-based)
	ContentStartPage int `mapstructure:"content_start_page" yaml:"content_start_page" json:"content_start_page"`
	TableStartPage   int `mapstructure:"table_start_page" yaml:"table_start_page" json:"table_start_page"`
	TableStopPage    int `mapstructure:"table_stop_page" yaml:"table_stop_page" json:"table_stop_page"`
	MaxCases         int `mapstructure:"max_cases" yaml:"max_cases" json:"max_cases"`

	// Model selection
	BackendVariant string  `mapstructure:"backend_variant" yaml:"backend_variant" json:"backend_variant"` // "local" or "hosted"
	ModelID        string  `mapstructure:"model_id" yaml:"model_id" json:"model_id"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	ContextWindow  int     `mapstructure:"context_window" yaml:"context_window" json:"context_window"` // num_ctx for local models

	// Extraction loop
	MaxAttempts    int           `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" yaml:"attempt_timeout" json:"attempt_timeout"` // 0 disables
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" json:"retry_delay"`
	CasePages      int           `mapstructure:"case_pages" yaml:"case_pages" json:"case_pages"`
	Workers        int           `mapstructure:"workers" yaml:"workers" json:"workers"`
	Summarize      bool          `mapstructure:"summarize" yaml:"summarize" json:"summarize"`

	// Prompt overrides (file paths; empty uses the embedded prompt)
	ContentsPromptFile string `mapstructure:"contents_prompt_file" yaml:"contents_prompt_file" json:"contents_prompt_file"`
	CasePromptFile     string `mapstructure:"case_prompt_file" yaml:"case_prompt_file" json:"case_prompt_file"`

	// Client behavior shared by both backends
	RateLimit  int `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`    // Requests per minute, 0 disables
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"` // Transport retries inside the client

	Local  LocalCfg  `mapstructure:"local" yaml:"local" json:"local"`
	Hosted HostedCfg `mapstructure:"hosted" yaml:"hosted" json:"hosted"`
}

// LocalCfg configures the local (Ollama) backend.
type LocalCfg struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
}

// HostedCfg configures the hosted (OpenAI-compatible) backend.
type HostedCfg struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url" json:"base_url,omitempty"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key" json:"-"` // supports ${ENV_VAR} syntax
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens" json:"max_tokens,omitempty"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:        "outputs",
		ContentStartPage: 19,
		TableStartPage:   5,
		TableStopPage:    6,
		MaxCases:         3,
		BackendVariant:   BackendLocal,
		ModelID:          "llama3.2:latest",
		Temperature:      0.2,
		ContextWindow:    4096,
		MaxAttempts:      3,
		CasePages:        1,
		Workers:          1,
		Local: LocalCfg{
			BaseURL: "http://localhost:11434",
		},
		Hosted: HostedCfg{
			APIKey: "${OPENAI_API_KEY}",
		},
	}
}
