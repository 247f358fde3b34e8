package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"

	"github.com/jonathan/fit-scorer/internal/keywords"
)

// HashingProvider is a deterministic, offline embedder. Each keyword of the
// text is hashed into one of a fixed number of buckets; the bucket counts are
// L2-normalised. Texts sharing keywords get positive cosine similarity.
type HashingProvider struct {
	dimension int
}

// NewHashingProvider creates a hashing embedder; dimension <= 0 uses DefaultDimension.
func NewHashingProvider(dimension int) *HashingProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashingProvider{dimension: dimension}
}

// Name returns the provider identifier
func (p *HashingProvider) Name() string { return "hashing:" + strconv.Itoa(p.dimension) }

// Dimension returns the vector length
func (p *HashingProvider) Dimension() int { return p.dimension }

// Embed never fails; text without keywords yields the zero vector.
func (p *HashingProvider) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, p.dimension)
	for _, tok := range keywords.Extract(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32()%uint32(p.dimension))]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}
