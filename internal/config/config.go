package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/casebook/internal/providers"
)

// EnvPrefix is the prefix for environment variable overrides (CASEBOOK_MAX_CASES, ...).
const EnvPrefix = "CASEBOOK"

// Manager loads configuration once at startup.
type Manager struct {
	v      *viper.Viper
	config *Config
}

// NewManager creates a config manager and loads the config.
// cfgFile is optional; when empty, config.yaml is searched in "." and searchDir.
// overrides are applied last (command-line flags).
func NewManager(cfgFile, searchDir string, overrides map[string]any) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile, searchDir); err != nil {
		return nil, err
	}
	for key, value := range overrides {
		cm.v.Set(key, value)
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, searchDir string) error {
	setDefaults(cm.v)

	// Environment variables with CASEBOOK_ prefix; nested keys use underscores
	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		if searchDir != "" {
			cm.v.AddConfigPath(searchDir)
		}
	}

	// Config file is optional unless one was named explicitly
	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the loaded configuration.
func (cm *Manager) Get() *Config {
	return cm.config
}

// ConfigFileUsed returns the config file that was read, if any.
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// Validate checks option ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.InputPath) == "" {
		errs = append(errs, errors.New("input_path is required"))
	}
	if c.ContentStartPage < 1 {
		errs = append(errs, fmt.Errorf("content_start_page must be >= 1, got %d", c.ContentStartPage))
	}
	if c.TableStartPage < 1 {
		errs = append(errs, fmt.Errorf("table_start_page must be >= 1, got %d", c.TableStartPage))
	}
	if c.TableStopPage < c.TableStartPage {
		errs = append(errs, fmt.Errorf("table_stop_page (%d) must be >= table_start_page (%d)", c.TableStopPage, c.TableStartPage))
	}
	if c.MaxCases < 0 {
		errs = append(errs, fmt.Errorf("max_cases must be >= 0, got %d", c.MaxCases))
	}
	switch c.BackendVariant {
	case BackendLocal:
	case BackendHosted:
		if ResolveEnvVars(c.Hosted.APIKey) == "" {
			errs = append(errs, errors.New("hosted.api_key is empty (set OPENAI_API_KEY or hosted.api_key)"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend_variant must be %q or %q, got %q", BackendLocal, BackendHosted, c.BackendVariant))
	}
	if strings.TrimSpace(c.ModelID) == "" {
		errs = append(errs, errors.New("model_id is required"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature must be within [0, 2], got %g", c.Temperature))
	}
	if c.ContextWindow < 0 {
		errs = append(errs, fmt.Errorf("context_window must be >= 0, got %d", c.ContextWindow))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts))
	}
	if c.AttemptTimeout < 0 || c.RetryDelay < 0 {
		errs = append(errs, errors.New("attempt_timeout and retry_delay must not be negative"))
	}
	if c.CasePages < 1 {
		errs = append(errs, fmt.Errorf("case_pages must be >= 1, got %d", c.CasePages))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.RateLimit < 0 || c.MaxRetries < 0 {
		errs = append(errs, errors.New("rate_limit and max_retries must not be negative"))
	}
	return errors.Join(errs...)
}

// ToProviderConfig converts the config to the form providers.New expects.
// It resolves ${ENV_VAR} references in the API key.
func (c *Config) ToProviderConfig() providers.Config {
	cfg := providers.Config{
		Variant:       providers.Variant(c.BackendVariant),
		Model:         c.ModelID,
		Temperature:   c.Temperature,
		ContextWindow: c.ContextWindow,
		RateLimit:     c.RateLimit,
		MaxRetries:    c.MaxRetries,
	}
	switch c.BackendVariant {
	case BackendHosted:
		cfg.BaseURL = c.Hosted.BaseURL
		cfg.APIKey = ResolveEnvVars(c.Hosted.APIKey)
		cfg.MaxTokens = c.Hosted.MaxTokens
	default:
		cfg.BaseURL = c.Local.BaseURL
	}
	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	cfg.InputPath = "book.pdf"
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := []byte(`# Casebook configuration
# hosted.api_key uses ${ENV_VAR} syntax to reference environment variables
# Every key can be overridden with CASEBOOK_<KEY>, e.g. CASEBOOK_MAX_CASES=10

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
