// Package requirements flattens the family, template and variant requirement
// levels of a job into one deduplicated list.
package requirements

import (
	"context"
	"fmt"

	"github.com/jonathan/fit-scorer/internal/types"
	"go.uber.org/zap"
)

// Repository resolves a job reference to its requirement levels.
// A nil set with a nil error means the job does not exist.
type Repository interface {
	GetRequirementsForJob(ctx context.Context, jobID string) (*types.JobRequirementSet, error)
}

// Aggregated is the flattened requirement list of one job.
type Aggregated struct {
	JobID        string              `json:"job_id"`
	Title        string              `json:"title,omitempty"`
	Requirements []types.Requirement `json:"requirements"`
	// Excluded counts requirements dropped because they failed validation.
	Excluded int `json:"excluded"`
}

// Aggregator resolves and merges job requirements.
type Aggregator struct {
	repo   Repository
	logger *zap.Logger
}

// NewAggregator creates an Aggregator. A nil logger disables logging.
func NewAggregator(repo Repository, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{repo: repo, logger: logger}
}

// Aggregate loads the requirement levels for jobID and merges them.
func (a *Aggregator) Aggregate(ctx context.Context, jobID string) (*Aggregated, error) {
	set, err := a.repo.GetRequirementsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements for job %s: %w", jobID, err)
	}
	if set == nil {
		return nil, &types.NotFoundError{Kind: "job", ID: jobID}
	}

	merged, excluded := a.Merge(set)
	return &Aggregated{
		JobID:        jobID,
		Title:        set.Title,
		Requirements: merged,
		Excluded:     excluded,
	}, nil
}

// Merge concatenates family, template and variant requirements and keeps the
// last occurrence of every normalized description, so more specific levels
// override less specific ones. An overriding requirement takes the position of
// the one it replaces. Invalid requirements are logged and excluded.
func (a *Aggregator) Merge(set *types.JobRequirementSet) ([]types.Requirement, int) {
	levels := []struct {
		level types.Level
		reqs  []types.Requirement
	}{
		{types.LevelFamily, set.Family},
		{types.LevelTemplate, set.Template},
		{types.LevelVariant, set.Variant},
	}

	merged := make([]types.Requirement, 0, len(set.Family)+len(set.Template)+len(set.Variant))
	position := make(map[string]int)
	excluded := 0

	for _, l := range levels {
		for _, raw := range l.reqs {
			req := raw.WithDefaults()
			if req.Level == "" {
				req.Level = l.level
			}
			if err := req.Validate(); err != nil {
				excluded++
				a.logger.Warn("excluding invalid requirement",
					zap.String("job_id", set.JobID),
					zap.String("requirement_id", req.ID),
					zap.String("level", string(l.level)),
					zap.Error(err))
				continue
			}

			key := req.NormalizedDescription()
			if i, ok := position[key]; ok {
				merged[i] = req
				continue
			}
			position[key] = len(merged)
			merged = append(merged, req)
		}
	}
	return merged, excluded
}

// ByCategory splits requirements into their MUST, SHOULD and NICE buckets.
func ByCategory(reqs []types.Requirement) map[types.Category][]types.Requirement {
	out := make(map[types.Category][]types.Requirement, len(types.Categories))
	for _, r := range reqs {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}
