package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShortlistCmd(root *rootOptions) *cobra.Command {
	var (
		jobID          string
		minFitScore    int
		maxResults     int
		applicantsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "shortlist",
		Short: "Build a ranked candidate shortlist for a job",
		Long:  "Pre-filters candidates through the vector index, scores each one in full and prints those meeting the minimum fit score, best first. With the memory index every known candidate is indexed first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := a.cfg.ShortlistOptions()
			if cmd.Flags().Changed("min-fit-score") {
				opts.MinFitScore = minFitScore
			}
			if cmd.Flags().Changed("max-results") {
				opts.MaxResults = maxResults
			}
			opts.ApplicantsOnly = applicantsOnly

			if err := a.warmIndex(cmd.Context()); err != nil {
				return err
			}

			result, err := a.engine.FindMatchingCandidates(cmd.Context(), jobID, opts)
			if err != nil {
				return fmt.Errorf("failed to build shortlist for job %s: %w", jobID, err)
			}
			return a.write(result, func() { a.printer.PrintShortlist(result) })
		},
	}

	cmd.Flags().StringVarP(&jobID, "job", "j", "", "Job variant id (required)")
	cmd.Flags().IntVar(&minFitScore, "min-fit-score", 0, "Minimum fit score 0-100 (default from config)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum number of candidates returned (default from config)")
	cmd.Flags().BoolVar(&applicantsOnly, "applicants-only", false, "Only consider candidates who applied to the job")
	mustMarkRequired(cmd, "job")

	return cmd
}
