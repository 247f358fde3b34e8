package ranking

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// IndexCandidate embeds the candidate's composite text and stores it in the
// vector index, tagged with jobIDs.
func (e *Engine) IndexCandidate(ctx context.Context, candidateID string, jobIDs []string) error {
	if e.index == nil {
		return fmt.Errorf("indexing requires a vector index")
	}

	profile, err := e.candidate(ctx, candidateID)
	if err != nil {
		return err
	}
	text := profile.Text()
	if strings.TrimSpace(text) == "" {
		return &types.ValidationError{Field: "candidate", Message: "profile has no text to index"}
	}

	vec, err := e.provider.Embed(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !types.IsProvider(err) {
			err = &types.ProviderError{Op: "embed", Cause: err}
		}
		return fmt.Errorf("failed to embed candidate %s: %w", candidateID, err)
	}

	if err := e.index.Upsert(ctx, vectorindex.Entry{EntityID: candidateID, Vector: vec, JobIDs: jobIDs}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &types.ProviderError{Op: "vector upsert", Cause: err}
	}

	e.logger.Debug("candidate indexed",
		zap.String("candidate_id", candidateID),
		zap.Strings("job_ids", jobIDs),
		zap.Int("dimension", len(vec)))
	return nil
}
