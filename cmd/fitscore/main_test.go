package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/fixtures"
	"github.com/jonathan/fit-scorer/internal/requirements"
	"github.com/jonathan/fit-scorer/internal/types"
)

const sampleFixtures = "../../internal/fixtures/testdata/sample.yaml"

// run executes the CLI against the sample fixtures with the offline embedder
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FITSCORE_DATABASE_URL", "")
	t.Setenv("FITSCORE_VECTOR_INDEX_TYPE", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--fixtures", sampleFixtures, "--provider", "hashing"))

	err := cmd.Execute()
	return out.String(), err
}

func TestRequirementsCommand_JSON(t *testing.T) {
	out, err := run(t, "requirements", "--job", "backend-acme", "-o", "json")
	require.NoError(t, err)

	var agg requirements.Aggregated
	require.NoError(t, json.Unmarshal([]byte(out), &agg))
	assert.Equal(t, "backend-acme", agg.JobID)
	assert.Len(t, agg.Requirements, 3)
}

func TestRequirementsCommand_Text(t *testing.T) {
	out, err := run(t, "requirements", "--job", "backend-acme")
	require.NoError(t, err)
	assert.Contains(t, out, "JOB REQUIREMENTS")
	assert.Contains(t, out, "golang microservices")
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "match", "--job", "backend-acme", "--candidate", "cand-go", "-o", "json")
	require.NoError(t, err)

	var result types.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "cand-go", result.CandidateID)
	assert.Equal(t, "backend-acme", result.JobVariantID)
	assert.GreaterOrEqual(t, result.FitScore, 0)
	assert.LessOrEqual(t, result.FitScore, 100)
	assert.Len(t, result.DetailedAnalysis, 3)
}

func TestMatchCommand_Text(t *testing.T) {
	out, err := run(t, "match", "--job", "backend-acme", "--candidate", "cand-go")
	require.NoError(t, err)
	assert.Contains(t, out, "FIT ASSESSMENT")
	assert.Contains(t, out, "REQUIREMENT ANALYSIS")
}

func TestMatchCommand_UnknownCandidate(t *testing.T) {
	_, err := run(t, "match", "--job", "backend-acme", "--candidate", "nobody")
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}

func TestMatchCommand_MissingFlag(t *testing.T) {
	_, err := run(t, "match", "--job", "backend-acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate")
}

func TestShortlistCommand(t *testing.T) {
	t.Setenv("FITSCORE_SHORTLIST_PREFILTER_MIN_SIMILARITY", "0")

	out, err := run(t, "shortlist", "--job", "backend-acme", "--min-fit-score", "0", "--applicants-only", "-o", "json")
	require.NoError(t, err)

	var result types.ShortlistResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "cand-go", result.Matches[0].CandidateID)
}

func TestShortlistCommand_SkipsUnindexableCandidates(t *testing.T) {
	t.Setenv("FITSCORE_SHORTLIST_PREFILTER_MIN_SIMILARITY", "0")

	extra := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("candidates:\n  - id: cand-empty\n    applied_jobs: [backend-acme]\n"), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"all candidates", nil},
		{"applicants only", []string{"--applicants-only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"shortlist", "--job", "backend-acme", "--min-fit-score", "0", "-o", "json", "--fixtures", extra}, tt.args...)
			out, err := run(t, args...)
			require.NoError(t, err)

			var result types.ShortlistResult
			require.NoError(t, json.Unmarshal([]byte(out), &result))

			ids := make([]string, 0, len(result.Matches))
			for _, m := range result.Matches {
				ids = append(ids, m.CandidateID)
			}
			assert.Contains(t, ids, "cand-go")
			assert.NotContains(t, ids, "cand-empty")
		})
	}
}

func TestShortlistCommand_InvalidOptions(t *testing.T) {
	_, err := run(t, "shortlist", "--job", "backend-acme", "--max-results", "5000")
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestIndexCommand(t *testing.T) {
	out, err := run(t, "index", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 of 2 candidates")

	out, err = run(t, "index", "--candidate", "cand-go", "--job-ids", "backend-acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed candidate cand-go")

	_, err = run(t, "index")
	assert.Error(t, err)
	_, err = run(t, "index", "--all", "--candidate", "cand-go")
	assert.Error(t, err)
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is required")
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "requirements", "--job", "backend-acme", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestNoDataSource(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FITSCORE_DATABASE_URL", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"requirements", "--job", "backend-acme", "--provider", "hashing"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data source")
}

func TestJobRecord(t *testing.T) {
	store, err := fixtures.Load(sampleFixtures)
	require.NoError(t, err)
	jobs := store.Jobs()
	require.Len(t, jobs, 1)

	rec := jobRecord(jobs[0])
	assert.Equal(t, "engineering", rec.FamilyID)
	assert.Equal(t, "backend", rec.TemplateID)
	assert.Equal(t, "Acme", rec.Company)
	assert.Equal(t, "backend-acme", rec.Set.JobID)
	assert.Len(t, rec.Set.Template, 2)
}
