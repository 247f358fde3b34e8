package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRequirementsCmd(root *rootOptions) *cobra.Command {
	var jobID string

	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Show the aggregated requirements of a job",
		Long:  "Flattens the job's family, template and variant requirements with more specific levels overriding less specific ones, and prints the result by category.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			agg, err := a.engine.Requirements(cmd.Context(), jobID)
			if err != nil {
				return fmt.Errorf("failed to aggregate requirements for job %s: %w", jobID, err)
			}
			return a.write(agg, func() { a.printer.PrintRequirements(agg) })
		},
	}

	cmd.Flags().StringVarP(&jobID, "job", "j", "", "Job variant id (required)")
	mustMarkRequired(cmd, "job")

	return cmd
}
