package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/fit-scorer/internal/types"
)

// OpenAIConfig configures the OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint. It also
// understands the Ollama-native {"embedding": [...]} response shape.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIProvider creates a provider; APIKey may be empty for local servers.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &OpenAIProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string { return "openai:" + p.model }

type openAIRequest struct {
	Input  string `json:"input"`
	Prompt string `json:"prompt,omitempty"`
	Model  string `json:"model"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	// Ollama-native shape
	Embedding []float64 `json:"embedding"`
}

// Embed returns an embedding vector for the given text. Failures are not retried.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(openAIRequest{Input: text, Prompt: text, Model: p.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &types.ProviderError{Op: "embed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ProviderError{Op: "embed", Cause: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &types.ProviderError{Op: "embed", Cause: fmt.Errorf("embeddings endpoint returned %s", resp.Status)}
	}

	var out openAIResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &types.ProviderError{Op: "embed", Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(out.Data) > 0 && len(out.Data[0].Embedding) > 0 {
		return out.Data[0].Embedding, nil
	}
	if len(out.Embedding) > 0 {
		return out.Embedding, nil
	}
	return nil, &types.ProviderError{Op: "embed", Cause: fmt.Errorf("no embedding returned")}
}
