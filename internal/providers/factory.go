package providers

import (
	"fmt"
)

// Config selects and configures a completion backend.
type Config struct {
	Variant       Variant
	Model         string
	BaseURL       string
	APIKey        string
	Temperature   float64
	ContextWindow int
	MaxTokens     int
	RateLimit     int // requests per minute, 0 = unlimited
	MaxRetries    int // transport-level retries inside the client
}

// New constructs the client for cfg.Variant.
func New(cfg Config) (LLMClient, error) {
	limiter := NewRateLimiter(cfg.RateLimit)

	switch cfg.Variant {
	case VariantLocal, "":
		return NewLocalClient(LocalConfig{
			BaseURL:       cfg.BaseURL,
			DefaultModel:  cfg.Model,
			Temperature:   cfg.Temperature,
			ContextWindow: cfg.ContextWindow,
			MaxRetries:    cfg.MaxRetries,
			Limiter:       limiter,
		}), nil
	case VariantHosted:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("hosted backend requires an API key")
		}
		return NewHostedClient(HostedConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			MaxRetries:   cfg.MaxRetries,
			Limiter:      limiter,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend variant %q", cfg.Variant)
	}
}
