package vectorindex

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
)

// MemoryIndex is an in-process index using brute-force cosine similarity.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]Entry
}

// NewMemoryIndex creates an empty index; the dimension is fixed by the first upsert.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]Entry)}
}

// Upsert stores or replaces the entry for EntityID.
func (m *MemoryIndex) Upsert(_ context.Context, entry Entry) error {
	if entry.EntityID == "" {
		return errors.New("entity id is required")
	}
	if len(entry.Vector) == 0 {
		return errors.New("vector is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension == 0 {
		m.dimension = len(entry.Vector)
	}
	if len(entry.Vector) != m.dimension {
		return errors.New("vector dimension mismatch")
	}

	entry.Vector = slices.Clone(entry.Vector)
	entry.JobIDs = slices.Clone(entry.JobIDs)
	m.entries[entry.EntityID] = entry
	return nil
}

// Query returns up to opts.Limit entries with similarity >= opts.MinSimilarity,
// best first. Ties are ordered by entity id.
func (m *MemoryIndex) Query(ctx context.Context, vector []float64, filter QueryFilter, opts QueryOptions) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]Hit, 0, len(m.entries))
	for id, e := range m.entries {
		if filter.JobID != "" && !slices.Contains(e.JobIDs, filter.JobID) {
			continue
		}
		sim := CosineSimilarity(vector, e.Vector)
		if sim < opts.MinSimilarity {
			continue
		}
		hits = append(hits, Hit{EntityID: id, RawScore: sim + ScoreOffset})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].RawScore != hits[j].RawScore {
			return hits[i].RawScore > hits[j].RawScore
		}
		return hits[i].EntityID < hits[j].EntityID
	})

	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// Len returns the number of stored entries
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
