package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/casebook/internal/providers"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BackendVariant != BackendLocal {
		t.Errorf("expected local backend by default, got %s", cfg.BackendVariant)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.CasePages != 1 {
		t.Errorf("expected one page per case, got %d", cfg.CasePages)
	}
	if cfg.Hosted.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
input_path: book.pdf
content_start_page: 21
max_cases: 7
backend_variant: hosted
attempt_timeout: 90s
hosted:
  api_key: direct-key
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile, "", nil)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.InputPath != "book.pdf" {
			t.Errorf("InputPath = %q", cfg.InputPath)
		}
		if cfg.ContentStartPage != 21 {
			t.Errorf("ContentStartPage = %d, want 21", cfg.ContentStartPage)
		}
		if cfg.MaxCases != 7 {
			t.Errorf("MaxCases = %d, want 7", cfg.MaxCases)
		}
		if cfg.AttemptTimeout != 90*time.Second {
			t.Errorf("AttemptTimeout = %s, want 90s", cfg.AttemptTimeout)
		}
		// Unset keys keep their defaults
		if cfg.TableStartPage != 5 || cfg.TableStopPage != 6 {
			t.Errorf("table range = %d-%d, want defaults 5-6", cfg.TableStartPage, cfg.TableStopPage)
		}
		if cfg.Local.BaseURL != "http://localhost:11434" {
			t.Errorf("Local.BaseURL = %q", cfg.Local.BaseURL)
		}
		if mgr.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed() = %q", mgr.ConfigFileUsed())
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"), "", nil)
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("no file falls back to defaults", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir(), nil)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if mgr.Get().ModelID != "llama3.2:latest" {
			t.Errorf("ModelID = %q", mgr.Get().ModelID)
		}
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("CASEBOOK_MAX_CASES", "12")
		t.Setenv("CASEBOOK_LOCAL_BASE_URL", "http://gpu-box:11434")

		mgr, err := NewManager("", t.TempDir(), nil)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if mgr.Get().MaxCases != 12 {
			t.Errorf("MaxCases = %d, want 12", mgr.Get().MaxCases)
		}
		if mgr.Get().Local.BaseURL != "http://gpu-box:11434" {
			t.Errorf("Local.BaseURL = %q", mgr.Get().Local.BaseURL)
		}
	})

	t.Run("overrides win over env", func(t *testing.T) {
		t.Setenv("CASEBOOK_MAX_CASES", "12")

		mgr, err := NewManager("", t.TempDir(), map[string]any{"max_cases": 2, "input_path": "x.pdf"})
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if mgr.Get().MaxCases != 2 {
			t.Errorf("MaxCases = %d, want 2", mgr.Get().MaxCases)
		}
		if mgr.Get().InputPath != "x.pdf" {
			t.Errorf("InputPath = %q", mgr.Get().InputPath)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.InputPath = "book.pdf"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("default config with input should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing input", func(c *Config) { c.InputPath = "" }, "input_path"},
		{"content start zero", func(c *Config) { c.ContentStartPage = 0 }, "content_start_page"},
		{"inverted table range", func(c *Config) { c.TableStartPage, c.TableStopPage = 6, 5 }, "table_stop_page"},
		{"negative max cases", func(c *Config) { c.MaxCases = -1 }, "max_cases"},
		{"unknown backend", func(c *Config) { c.BackendVariant = "remote" }, "backend_variant"},
		{"empty model", func(c *Config) { c.ModelID = " " }, "model_id"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max_attempts"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero case pages", func(c *Config) { c.CasePages = 0 }, "case_pages"},
		{"hosted without key", func(c *Config) {
			c.BackendVariant = BackendHosted
			c.Hosted.APIKey = "${DEFINITELY_NOT_SET_12345}"
		}, "hosted.api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	t.Run("max cases zero is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.MaxCases = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestConfig_ToProviderConfig(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-123")

	cfg := DefaultConfig()
	cfg.BackendVariant = BackendHosted
	cfg.ModelID = "gpt-4o-mini"
	cfg.Hosted.APIKey = "${TEST_OPENAI_KEY}"
	cfg.Hosted.BaseURL = "https://example.test/v1"

	pc := cfg.ToProviderConfig()
	if pc.Variant != providers.VariantHosted {
		t.Errorf("Variant = %s", pc.Variant)
	}
	if pc.APIKey != "sk-123" {
		t.Errorf("APIKey = %q, want resolved key", pc.APIKey)
	}
	if pc.BaseURL != "https://example.test/v1" {
		t.Errorf("BaseURL = %q", pc.BaseURL)
	}

	local := DefaultConfig().ToProviderConfig()
	if local.Variant != providers.VariantLocal || local.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected local provider config: %+v", local)
	}
	if local.ContextWindow != 4096 {
		t.Errorf("ContextWindow = %d", local.ContextWindow)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path, "", nil)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	cfg := mgr.Get()
	if err := cfg.Validate(); err != nil {
		t.Errorf("written default config should validate: %v", err)
	}
	if cfg.ContentStartPage != 19 || cfg.MaxAttempts != 3 {
		t.Errorf("unexpected reloaded values: %+v", cfg)
	}
}
