// Package ranking scores candidates against job requirements and builds ranked
// shortlists from a vector pre-filtered candidate pool.
package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/evidence"
	"github.com/jonathan/fit-scorer/internal/requirements"
	"github.com/jonathan/fit-scorer/internal/scoring"
	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// Shortlist pre-filter defaults
const (
	DefaultPrefilterMultiplier    = 2
	DefaultPrefilterMinSimilarity = 0.5
	DefaultConcurrency            = 4
)

// CandidateRepository loads candidate profiles.
// A nil profile with a nil error means the candidate does not exist.
type CandidateRepository interface {
	GetCandidate(ctx context.Context, id string) (*types.CandidateProfile, error)
}

// Config tunes an Engine.
type Config struct {
	Policy scoring.Policy
	// PrefilterMultiplier scales MaxResults into the vector query limit.
	PrefilterMultiplier int
	// PrefilterMinSimilarity is the cosine similarity floor of the vector query.
	PrefilterMinSimilarity float64
	// Concurrency bounds how many shortlist candidates are scored at once.
	Concurrency int
	Logger      *zap.Logger
}

// DefaultConfig returns the default policy and pre-filter settings.
func DefaultConfig() Config {
	return Config{
		Policy:                 scoring.DefaultPolicy(),
		PrefilterMultiplier:    DefaultPrefilterMultiplier,
		PrefilterMinSimilarity: DefaultPrefilterMinSimilarity,
		Concurrency:            DefaultConcurrency,
	}
}

// Engine is the candidate-job fit scoring engine. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	candidates CandidateRepository
	aggregator *requirements.Aggregator
	provider   embedding.Provider
	index      vectorindex.Index
	cfg        Config
	logger     *zap.Logger
}

// NewEngine wires an Engine from its collaborators. index may be nil when
// shortlisting and indexing are not needed.
func NewEngine(candidates CandidateRepository, reqs requirements.Repository, provider embedding.Provider, index vectorindex.Index, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PrefilterMultiplier <= 0 {
		cfg.PrefilterMultiplier = DefaultPrefilterMultiplier
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Engine{
		candidates: candidates,
		aggregator: requirements.NewAggregator(reqs, logger),
		provider:   provider,
		index:      index,
		cfg:        cfg,
		logger:     logger,
	}
}

// Requirements returns the aggregated requirement set of a job.
func (e *Engine) Requirements(ctx context.Context, jobID string) (*requirements.Aggregated, error) {
	return e.aggregator.Aggregate(ctx, jobID)
}

// MatchCandidateToJob scores one candidate against one job variant. Any
// provider failure aborts the match; no partial result is returned.
func (e *Engine) MatchCandidateToJob(ctx context.Context, candidateID, jobID string) (*types.MatchResult, error) {
	agg, err := e.aggregator.Aggregate(ctx, jobID)
	if err != nil {
		return nil, err
	}
	profile, err := e.candidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return e.score(ctx, embedding.NewRunCache(e.provider), profile, jobID, agg.Requirements)
}

// ScoreProfile runs the scoring pipeline for a profile that is not stored in
// the candidate repository.
func (e *Engine) ScoreProfile(ctx context.Context, profile *types.CandidateProfile, jobID string, reqs []types.Requirement) (*types.MatchResult, error) {
	if profile == nil {
		return nil, &types.ValidationError{Field: "candidate", Message: "is required"}
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return e.score(ctx, embedding.NewRunCache(e.provider), profile, jobID, reqs)
}

func (e *Engine) score(ctx context.Context, provider embedding.Provider, profile *types.CandidateProfile, jobID string, reqs []types.Requirement) (*types.MatchResult, error) {
	scorer := scoring.NewScorer(provider, e.cfg.Policy)

	candidate, err := scorer.Prepare(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to embed candidate %s: %w", profile.ID, err)
	}

	scores := make([]scoring.RequirementScore, 0, len(reqs))
	analysis := make([]types.RequirementMatch, 0, len(reqs))
	for _, req := range reqs {
		rs, err := scorer.Score(ctx, candidate, req)
		if err != nil {
			return nil, fmt.Errorf("failed to score requirement %q: %w", req.Description, err)
		}
		scores = append(scores, rs)
		analysis = append(analysis, evidence.Analyze(profile, req, rs.Matched, rs.Combined))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categories := scoring.Categorize(scores)
	insights := evidence.Summarize(analysis, evidence.Thresholds{
		Strength:         e.cfg.Policy.StrengthThreshold,
		ImprovementFloor: e.cfg.Policy.ImprovementFloor,
	})

	return &types.MatchResult{
		CandidateID:      profile.ID,
		JobVariantID:     jobID,
		FitScore:         e.cfg.Policy.Overall(categories),
		Breakdown:        categories.Breakdown(),
		Strengths:        insights.Strengths,
		Gaps:             insights.Gaps,
		Recommendations:  insights.Recommendations,
		DetailedAnalysis: analysis,
	}, nil
}

func (e *Engine) candidate(ctx context.Context, id string) (*types.CandidateProfile, error) {
	profile, err := e.candidates.GetCandidate(ctx, id)
	if err != nil {
		if types.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load candidate %s: %w", id, err)
	}
	if profile == nil {
		return nil, &types.NotFoundError{Kind: "candidate", ID: id}
	}
	return profile, nil
}
