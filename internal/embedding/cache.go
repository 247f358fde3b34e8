package embedding

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/fit-scorer/internal/types"
)

// Cache wraps a Provider and memoises embeddings by exact text. Concurrent
// requests for the same text share one provider call. Errors are never cached.
// Returned vectors are shared and must not be modified.
type Cache struct {
	provider   Provider
	maxEntries int

	mu      sync.RWMutex
	entries map[string][]float64
	order   []string // insertion order for FIFO eviction
	hits    int
	misses  int

	group singleflight.Group
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

// NewCache creates a cache in front of provider. maxEntries <= 0 means unbounded.
func NewCache(provider Provider, maxEntries int) *Cache {
	return &Cache{
		provider:   provider,
		maxEntries: maxEntries,
		entries:    make(map[string][]float64),
	}
}

// NewRunCache creates an unbounded cache meant to live for a single scoring run.
func NewRunCache(provider Provider) *Cache {
	return NewCache(provider, 0)
}

// Name returns the wrapped provider's name
func (c *Cache) Name() string { return c.provider.Name() }

// Embed returns the cached vector for text, calling the provider on a miss.
func (c *Cache) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if vec, ok := c.entries[text]; ok {
		c.hits++
		c.mu.Unlock()
		return vec, nil
	}
	c.misses++
	c.mu.Unlock()

	// The shared call must outlive any single waiter's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(text, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[text]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		vec, err := c.provider.Embed(shared, text)
		if err != nil {
			if !types.IsProvider(err) {
				err = &types.ProviderError{Op: "embed", Cause: err}
			}
			return nil, err
		}
		if len(vec) == 0 {
			return nil, &types.ProviderError{Op: "embed", Cause: fmt.Errorf("empty embedding from %s", c.provider.Name())}
		}
		c.store(text, vec)
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float64), nil
	}
}

// Stats returns a snapshot of cache counters
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

func (c *Cache) store(text string, vec []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[text]; exists {
		return
	}
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[text] = vec
	c.order = append(c.order, text)
}
