package config

import "github.com/spf13/viper"

// setDefaults registers every key with viper so env vars and flags can override it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("input_path", d.InputPath)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("content_start_page", d.ContentStartPage)
	v.SetDefault("table_start_page", d.TableStartPage)
	v.SetDefault("table_stop_page", d.TableStopPage)
	v.SetDefault("max_cases", d.MaxCases)
	v.SetDefault("backend_variant", d.BackendVariant)
	v.SetDefault("model_id", d.ModelID)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("context_window", d.ContextWindow)
	v.SetDefault("max_attempts", d.MaxAttempts)
	v.SetDefault("attempt_timeout", d.AttemptTimeout)
	v.SetDefault("retry_delay", d.RetryDelay)
	v.SetDefault("case_pages", d.CasePages)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("summarize", d.Summarize)
	v.SetDefault("contents_prompt_file", d.ContentsPromptFile)
	v.SetDefault("case_prompt_file", d.CasePromptFile)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("local.base_url", d.Local.BaseURL)
	v.SetDefault("hosted.base_url", d.Hosted.BaseURL)
	v.SetDefault("hosted.api_key", d.Hosted.APIKey)
	v.SetDefault("hosted.max_tokens", d.Hosted.MaxTokens)
}
