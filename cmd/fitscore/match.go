package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd(root *rootOptions) *cobra.Command {
	var jobID, candidateID string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score one candidate against one job",
		Long:  "Aggregates the job's requirements, scores the candidate against each one and prints the fit score, category breakdown, strengths, gaps and recommendations.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.engine.MatchCandidateToJob(cmd.Context(), candidateID, jobID)
			if err != nil {
				return fmt.Errorf("failed to match candidate %s to job %s: %w", candidateID, jobID, err)
			}
			return a.write(result, func() { a.printer.PrintMatchResult(result) })
		},
	}

	cmd.Flags().StringVarP(&jobID, "job", "j", "", "Job variant id (required)")
	cmd.Flags().StringVar(&candidateID, "candidate", "", "Candidate id (required)")
	mustMarkRequired(cmd, "job", "candidate")

	return cmd
}

// mustMarkRequired marks flags required, panicking on programmer error
func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
