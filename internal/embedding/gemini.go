package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/fit-scorer/internal/types"
)

// GeminiProvider implements Provider for Google Gemini embedding models
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini embedding provider
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Name returns the provider identifier
func (p *GeminiProvider) Name() string { return "gemini:" + p.model }

// Embed returns the semantic-similarity embedding for text
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	em := p.client.EmbeddingModel(p.model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &types.ProviderError{Op: "embed", Cause: err}
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, &types.ProviderError{Op: "embed", Cause: fmt.Errorf("no embedding in response")}
	}

	return toFloat64(resp.Embedding.Values), nil
}

// Close releases resources held by the client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
