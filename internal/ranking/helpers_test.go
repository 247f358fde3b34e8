package ranking

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

type stubCandidates map[string]*types.CandidateProfile

func (s stubCandidates) GetCandidate(_ context.Context, id string) (*types.CandidateProfile, error) {
	return s[id], nil
}

type stubRequirements map[string]*types.JobRequirementSet

func (s stubRequirements) GetRequirementsForJob(_ context.Context, jobID string) (*types.JobRequirementSet, error) {
	return s[jobID], nil
}

// mapProvider returns fixed vectors for known texts and falls back to hashing.
type mapProvider struct {
	vectors  map[string][]float64
	fallback embedding.Provider
	failOn   string
	calls    atomic.Int32
}

func (p *mapProvider) Name() string { return "map" }

func (p *mapProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	p.calls.Add(1)
	if p.failOn != "" && strings.Contains(text, p.failOn) {
		return nil, errors.New("quota exceeded")
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return p.fallback.Embed(ctx, text)
}

func newMapProvider() *mapProvider {
	return &mapProvider{vectors: map[string][]float64{}, fallback: embedding.NewHashingProvider(64)}
}

type failingIndex struct{}

func (failingIndex) Query(context.Context, []float64, vectorindex.QueryFilter, vectorindex.QueryOptions) ([]vectorindex.Hit, error) {
	return nil, errors.New("qdrant unavailable")
}

func (failingIndex) Upsert(context.Context, vectorindex.Entry) error {
	return errors.New("qdrant unavailable")
}
