package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/fit-scorer/internal/logger"
)

func newIndexCmd(root *rootOptions) *cobra.Command {
	var (
		candidateID string
		jobIDs      []string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed candidates and upsert them into the vector index",
		Long:  "Embeds a candidate's composite profile text and stores it in the configured vector index, tagged with the jobs the candidate applied to. Use --all to index every candidate of the data source.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all == (candidateID != "") {
				return fmt.Errorf("exactly one of --candidate or --all is required")
			}

			a, err := newApp(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				return a.indexAll(cmd)
			}

			if err := a.engine.IndexCandidate(cmd.Context(), candidateID, jobIDs); err != nil {
				return fmt.Errorf("failed to index candidate %s: %w", candidateID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed candidate %s\n", candidateID)
			return nil
		},
	}

	cmd.Flags().StringVar(&candidateID, "candidate", "", "Candidate id")
	cmd.Flags().StringSliceVar(&jobIDs, "job-ids", nil, "Job ids the candidate applied to")
	cmd.Flags().BoolVar(&all, "all", false, "Index every candidate")

	return cmd
}

// indexAll indexes every candidate, continuing past individual failures
func (a *app) indexAll(cmd *cobra.Command) error {
	ctx := cmd.Context()

	targets, err := a.indexTargets(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, t := range targets {
		if err := a.engine.IndexCandidate(ctx, t.id, t.jobIDs); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			a.logger.Warn("failed to index candidate", zap.String(logger.FieldCandidate, t.id), zap.Error(err))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d of %d candidates\n", len(targets)-failed, len(targets))
	if failed > 0 {
		return fmt.Errorf("%d candidates failed to index", failed)
	}
	return nil
}
