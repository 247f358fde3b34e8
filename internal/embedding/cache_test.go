package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/types"
)

// countingProvider records how many times each text was embedded
type countingProvider struct {
	mu    sync.Mutex
	calls map[string]int
	total atomic.Int32
	err   error
	delay time.Duration
	empty bool
}

func newCountingProvider() *countingProvider {
	return &countingProvider{calls: make(map[string]int)}
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Embed(_ context.Context, text string) ([]float64, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	p.calls[text]++
	p.mu.Unlock()
	p.total.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	if p.empty {
		return []float64{}, nil
	}
	return []float64{float64(len(text)), 1}, nil
}

func TestCache_HitsAfterFirstCall(t *testing.T) {
	provider := newCountingProvider()
	cache := NewRunCache(provider)
	ctx := context.Background()

	first, err := cache.Embed(ctx, "golang")
	require.NoError(t, err)
	second, err := cache.Embed(ctx, "golang")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls["golang"])

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestCache_ExactTextKey(t *testing.T) {
	provider := newCountingProvider()
	cache := NewRunCache(provider)
	ctx := context.Background()

	_, err := cache.Embed(ctx, "Go")
	require.NoError(t, err)
	_, err = cache.Embed(ctx, "go")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls["Go"])
	assert.Equal(t, 1, provider.calls["go"])
}

func TestCache_ErrorsNotCached(t *testing.T) {
	provider := newCountingProvider()
	provider.err = errors.New("quota exceeded")
	cache := NewRunCache(provider)
	ctx := context.Background()

	_, err := cache.Embed(ctx, "text")
	require.Error(t, err)
	assert.True(t, types.IsProvider(err))

	_, err = cache.Embed(ctx, "text")
	require.Error(t, err)
	assert.Equal(t, 2, provider.calls["text"])
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestCache_EmptyVectorIsProviderError(t *testing.T) {
	provider := newCountingProvider()
	provider.empty = true
	cache := NewRunCache(provider)

	_, err := cache.Embed(context.Background(), "anything")
	assert.True(t, types.IsProvider(err))
}

func TestCache_ConcurrentCallsShareProviderCall(t *testing.T) {
	provider := newCountingProvider()
	provider.delay = 50 * time.Millisecond
	cache := NewRunCache(provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Embed(context.Background(), "shared text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), provider.total.Load())
}

func TestCache_FIFOEviction(t *testing.T) {
	provider := newCountingProvider()
	cache := NewCache(provider, 2)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		_, err := cache.Embed(ctx, text)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Stats().Entries)

	// "a" was evicted, "c" is still cached
	_, err := cache.Embed(ctx, "a")
	require.NoError(t, err)
	_, err = cache.Embed(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls["a"])
	assert.Equal(t, 1, provider.calls["c"])
}

func TestCache_CancelledContext(t *testing.T) {
	provider := newCountingProvider()
	cache := NewRunCache(provider)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Embed(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), provider.total.Load())
}
