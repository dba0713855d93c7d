// Package prompts resolves system prompts: embedded defaults, optionally
// replaced by override files named in the config.
//
// Resolution order for a key:
//  1. Override file registered with Override (read at resolve time)
//  2. Embedded default registered with Register
package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jackzampolin/casebook/internal/prompts/casebrief"
	"github.com/jackzampolin/casebook/internal/prompts/contents"
)

// Resolved is the prompt text chosen for a key.
type Resolved struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	IsOverride bool   `json:"is_override"`
	Source     string `json:"source"` // "embedded" or the override path
	Hash       string `json:"hash"`
}

// Resolver resolves prompts by key.
type Resolver struct {
	mu        sync.RWMutex
	embedded  map[string]string
	overrides map[string]string
	logger    *slog.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		embedded:  make(map[string]string),
		overrides: make(map[string]string),
		logger:    logger,
	}
}

// Default returns a resolver with every built-in prompt registered.
func Default(logger *slog.Logger) *Resolver {
	r := NewResolver(logger)
	r.Register(contents.Key, contents.SystemPrompt)
	r.Register(casebrief.Key, casebrief.SystemPrompt)
	r.Register(casebrief.SummaryKey, casebrief.SummaryPrompt)
	return r
}

// Register sets the embedded default for key.
func (r *Resolver) Register(key, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embedded[key] = text
	r.logger.Debug("registered embedded prompt", "key", key, "hash", HashText(text)[:12])
}

// Override replaces key with the contents of the file at path. An empty
// path clears any override.
func (r *Resolver) Override(key, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if path == "" {
		delete(r.overrides, key)
		return
	}
	r.overrides[key] = path
}

// Resolve returns the prompt for key.
func (r *Resolver) Resolve(key string) (*Resolved, error) {
	r.mu.RLock()
	path, hasOverride := r.overrides[key]
	embedded, hasEmbedded := r.embedded[key]
	r.mu.RUnlock()

	if hasOverride {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt override for %s: %w", key, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, fmt.Errorf("prompt override for %s is empty: %s", key, path)
		}
		r.logger.Info("using prompt override", "key", key, "path", path)
		return &Resolved{Key: key, Text: text, IsOverride: true, Source: path, Hash: HashText(text)}, nil
	}

	if !hasEmbedded {
		return nil, fmt.Errorf("prompt not found: %s", key)
	}
	return &Resolved{Key: key, Text: embedded, Source: "embedded", Hash: HashText(embedded)}, nil
}

// HashText returns a SHA256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
