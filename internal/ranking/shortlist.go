package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// FindMatchingCandidates builds a ranked shortlist for a job. The vector index
// pre-filters the pool to PrefilterMultiplier*MaxResults candidates, each of
// which is then scored exactly. Candidates that cannot be loaded or whose
// scoring hits a provider failure are logged, skipped and counted.
func (e *Engine) FindMatchingCandidates(ctx context.Context, jobID string, opts types.ShortlistOptions) (*types.ShortlistResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if e.index == nil {
		return nil, fmt.Errorf("shortlisting requires a vector index")
	}

	agg, err := e.aggregator.Aggregate(ctx, jobID)
	if err != nil {
		return nil, err
	}

	run := embedding.NewRunCache(e.provider)
	jobVector, err := run.Embed(ctx, JobDocument(agg.Title, agg.Requirements))
	if err != nil {
		return nil, fmt.Errorf("failed to embed job %s: %w", jobID, err)
	}

	filter := vectorindex.QueryFilter{}
	if opts.ApplicantsOnly {
		filter.JobID = jobID
	}
	hits, err := e.index.Query(ctx, jobVector, filter, vectorindex.QueryOptions{
		Limit:         opts.MaxResults * e.cfg.PrefilterMultiplier,
		MinSimilarity: e.cfg.PrefilterMinSimilarity,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &types.ProviderError{Op: "vector query", Cause: err}
	}

	results := make([]*types.MatchResult, len(hits))
	var skipped int
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, hit := range hits {
		g.Go(func() error {
			result, err := e.scoreHit(gCtx, run, hit.EntityID, jobID, agg.Requirements)
			if err == nil {
				results[i] = result
				return nil
			}
			if gCtx.Err() != nil || !skippable(err) {
				return err
			}
			e.logger.Warn("skipping candidate",
				zap.String("job_id", jobID),
				zap.String("candidate_id", hit.EntityID),
				zap.Error(err))
			mu.Lock()
			skipped++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			scored = append(scored, *r)
		}
	}
	matches := Rank(scored, opts.MinFitScore, opts.MaxResults)

	e.logger.Info("shortlist built",
		zap.String("job_id", jobID),
		zap.Int("prefiltered", len(hits)),
		zap.Int("scored", len(scored)),
		zap.Int("skipped", skipped),
		zap.Int("returned", len(matches)))

	return &types.ShortlistResult{
		JobID:       jobID,
		Matches:     matches,
		Prefiltered: len(hits),
		Scored:      len(scored),
		Skipped:     skipped,
	}, nil
}

func (e *Engine) scoreHit(ctx context.Context, provider embedding.Provider, candidateID, jobID string, reqs []types.Requirement) (*types.MatchResult, error) {
	profile, err := e.candidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return e.score(ctx, provider, profile, jobID, reqs)
}

// skippable reports whether a per-candidate failure should drop only that candidate.
func skippable(err error) bool {
	return types.IsProvider(err) || types.IsNotFound(err)
}

// Rank drops results below minFitScore, sorts the rest by fit score
// descending with candidate id as tie-breaker, and keeps at most maxResults.
func Rank(results []types.MatchResult, minFitScore, maxResults int) []types.MatchResult {
	kept := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.FitScore >= minFitScore {
			kept = append(kept, r)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].FitScore != kept[j].FitScore {
			return kept[i].FitScore > kept[j].FitScore
		}
		return kept[i].CandidateID < kept[j].CandidateID
	})

	if maxResults > 0 && len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}

// JobDocument builds the synthetic text embedded to represent a job in the
// vector pre-filter: the title followed by every requirement description.
func JobDocument(title string, reqs []types.Requirement) string {
	parts := make([]string, 0, len(reqs)+1)
	if t := strings.TrimSpace(title); t != "" {
		parts = append(parts, t)
	}
	for _, r := range reqs {
		parts = append(parts, r.Description)
	}
	return strings.Join(parts, "\n")
}
