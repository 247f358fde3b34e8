// Package vectorindex stores candidate embeddings and answers nearest-neighbour
// queries used as a coarse pre-filter before exact scoring.
package vectorindex

import (
	"context"
	"math"
)

// ScoreOffset is added to cosine similarity to produce Hit.RawScore, so raw
// scores live in [0,2]. Every backend in this package follows the convention.
const ScoreOffset = 1.0

// Hit is one nearest-neighbour result.
type Hit struct {
	EntityID string
	RawScore float64
}

// Similarity recovers the cosine similarity of the hit.
func (h Hit) Similarity() float64 {
	return Similarity(h.RawScore)
}

// Entry is a stored vector. JobIDs tags the entry with the jobs it is
// associated with (for example jobs the candidate applied to).
type Entry struct {
	EntityID string
	Vector   []float64
	JobIDs   []string
}

// QueryFilter narrows the searched pool. An empty JobID searches everything.
type QueryFilter struct {
	JobID string
}

// QueryOptions bounds the result set. MinSimilarity is a cosine similarity,
// not a raw score.
type QueryOptions struct {
	Limit         int
	MinSimilarity float64
}

// Index is a nearest-neighbour store of entity vectors.
type Index interface {
	Query(ctx context.Context, vector []float64, filter QueryFilter, opts QueryOptions) ([]Hit, error)
	Upsert(ctx context.Context, entry Entry) error
}

// Similarity converts a raw score back to cosine similarity.
func Similarity(raw float64) float64 {
	return raw - ScoreOffset
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1,1].
// Vectors of different length or zero magnitude have similarity 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// guard against rounding drift outside the mathematical range
	return math.Max(-1, math.Min(1, sim))
}
