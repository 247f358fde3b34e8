package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/types"
)

func TestHashingProvider_Deterministic(t *testing.T) {
	p := NewHashingProvider(64)
	ctx := context.Background()

	a, err := p.Embed(ctx, "Senior Go developer with Kubernetes")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "Senior Go developer with Kubernetes")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestHashingProvider_NoKeywordsGivesZeroVector(t *testing.T) {
	p := NewHashingProvider(0)
	assert.Equal(t, DefaultDimension, p.Dimension())
	vec, err := p.Embed(context.Background(), "the and of")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimension)
	for _, v := range vec {
		assert.Equal(t, 0.0, v)
	}
}

func TestOpenAIProvider_OpenAIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Input)
		assert.Equal(t, DefaultOpenAIModel, req.Model)

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL + "/", APIKey: "secret"})
	require.NoError(t, err)

	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIProvider_OllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1,0]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})
	require.NoError(t, err)

	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, vec)
	assert.Equal(t, "openai:nomic-embed-text", p.Name())
}

func TestOpenAIProvider_ServerErrorIsProviderError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, types.IsProvider(err))
	assert.Equal(t, int32(1), calls.Load(), "provider must not retry")
}

func TestNew_SelectsProvider(t *testing.T) {
	ctx := context.Background()

	p, err := New(ctx, &Config{Kind: KindHashing, Dimension: 32})
	require.NoError(t, err)
	assert.Equal(t, "hashing:32", p.Name())
	assert.NoError(t, Close(p))

	p, err = New(ctx, &Config{Kind: KindOpenAI, BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai:"+DefaultOpenAIModel, p.Name())

	p, err = New(ctx, &Config{Kind: KindGemini})
	assert.Error(t, err, "gemini requires an API key")
	assert.Nil(t, p)

	_, err = New(ctx, &Config{Kind: "word2vec"})
	assert.Error(t, err)
}
