// Package embedding turns text into vectors through a pluggable provider and
// caches the results by exact text.
package embedding

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Kind selects an embedding provider implementation
type Kind string

// Supported providers
const (
	// KindGemini is the Google Gemini embedding API
	KindGemini Kind = "gemini"
	// KindOpenAI is any OpenAI-compatible /embeddings endpoint (OpenAI, Ollama, vLLM)
	KindOpenAI Kind = "openai"
	// KindHashing is the offline feature-hashing embedder
	KindHashing Kind = "hashing"
)

// Default models per provider
const (
	DefaultGeminiModel = "text-embedding-004"
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultOpenAIURL   = "https://api.openai.com/v1"
	DefaultDimension   = 256
	DefaultTimeout     = 30 * time.Second
)

// Config holds provider selection and connection settings
type Config struct {
	Kind      Kind
	Model     string
	APIKey    string
	BaseURL   string
	Dimension int // only used by the hashing provider
	Timeout   time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Kind:      KindGemini,
		Model:     DefaultGeminiModel,
		Dimension: DefaultDimension,
		Timeout:   DefaultTimeout,
	}
}

// Provider returns a fixed-length vector for a piece of text.
// Implementations return *types.ProviderError on network or quota failures.
type Provider interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// New creates a provider based on configuration
func New(ctx context.Context, cfg *Config) (Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Kind {
	case KindGemini, "":
		p, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindOpenAI:
		p, err := NewOpenAIProvider(OpenAIConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindHashing:
		return NewHashingProvider(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Kind)
	}
}

// Close releases provider resources when the provider holds any.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
