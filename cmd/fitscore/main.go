// Package main provides the fitscore CLI: candidate-job fit scoring, shortlists,
// vector indexing, schema migration and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Output formats
const (
	outputText = "text"
	outputJSON = "json"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configFile string
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fitscore",
		Short:         "Candidate-job fit scoring engine",
		Long:          "fitscore scores candidate profiles against hierarchical job requirements, explains each match and builds ranked shortlists from a vector pre-filtered candidate pool.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML or JSON config file")
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format: text or json")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("json", false, "Log in JSON format")
	flags.String("database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	flags.StringSlice("fixtures", nil, "YAML/JSON fixture files used when no database is configured")
	flags.String("provider", "", "Embedding provider: gemini, openai or hashing")
	flags.String("index", "", "Vector index backend: memory or qdrant")

	cmd.AddCommand(
		newMatchCmd(opts),
		newShortlistCmd(opts),
		newIndexCmd(opts),
		newRequirementsCmd(opts),
		newMigrateCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
