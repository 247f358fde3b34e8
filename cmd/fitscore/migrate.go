package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/fit-scorer/internal/db"
	"github.com/jonathan/fit-scorer/internal/fixtures"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var seed []string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and optionally seed it",
		Long:  "Applies the embedded PostgreSQL schema (idempotent) and, with --seed, loads candidates and jobs from YAML/JSON fixture files into the database.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("database_url is required (set DATABASE_URL or --database-url)")
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")

			if len(seed) == 0 {
				return nil
			}
			return seedDatabase(cmd, database, seed)
		},
	}

	cmd.Flags().StringSliceVar(&seed, "seed", nil, "Fixture files to load into the database")

	return cmd
}

func seedDatabase(cmd *cobra.Command, database *db.DB, paths []string) error {
	ctx := cmd.Context()

	store, err := fixtures.Load(paths...)
	if err != nil {
		return err
	}

	candidates := store.Candidates()
	for i := range candidates {
		if err := database.UpsertCandidate(ctx, &candidates[i].CandidateProfile); err != nil {
			return fmt.Errorf("failed to seed candidate %s: %w", candidates[i].ID, err)
		}
	}

	jobs := store.Jobs()
	for _, job := range jobs {
		if err := database.SaveJob(ctx, jobRecord(job)); err != nil {
			return fmt.Errorf("failed to seed job %s: %w", job.JobID, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d candidates and %d jobs\n", len(candidates), len(jobs))
	return nil
}

// jobRecord converts a fixture job into the hierarchy rows the database stores
func jobRecord(job fixtures.JobDocument) *db.JobRecord {
	return &db.JobRecord{
		FamilyID:      job.FamilyID,
		FamilyName:    job.FamilyName,
		TemplateID:    job.TemplateID,
		TemplateTitle: job.TemplateTitle,
		Company:       job.Company,
		Set:           job.JobRequirementSet,
	}
}
