package db

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/types"
)

func TestSchema_DefinesTables(t *testing.T) {
	schema := Schema()
	tables := []string{
		"candidates",
		"candidate_skills",
		"candidate_experience",
		"candidate_education",
		"job_families",
		"job_templates",
		"job_variants",
		"requirements",
	}

	for _, table := range tables {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (", "schema should define %s", table)
	}
}

func TestJobRecord_Owners(t *testing.T) {
	tests := []struct {
		name     string
		record   JobRecord
		expected []requirementOwner
	}{
		{
			name:   "full hierarchy",
			record: JobRecord{FamilyID: "eng", TemplateID: "backend", Set: types.JobRequirementSet{JobID: "backend-acme"}},
			expected: []requirementOwner{
				{types.LevelFamily, "eng"},
				{types.LevelTemplate, "backend"},
				{types.LevelVariant, "backend-acme"},
			},
		},
		{
			name:     "variant only",
			record:   JobRecord{Set: types.JobRequirementSet{JobID: "solo"}},
			expected: []requirementOwner{{types.LevelVariant, "solo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.owners())
		})
	}
}

func TestJobRecord_RequirementsAt(t *testing.T) {
	rec := JobRecord{Set: types.JobRequirementSet{
		Family:   []types.Requirement{{Description: "Version control"}},
		Template: []types.Requirement{{Description: "Golang"}},
		Variant:  []types.Requirement{{Description: "Payments domain"}},
	}}

	assert.Equal(t, "Version control", rec.requirementsAt(types.LevelFamily)[0].Description)
	assert.Equal(t, "Golang", rec.requirementsAt(types.LevelTemplate)[0].Description)
	assert.Equal(t, "Payments domain", rec.requirementsAt(types.LevelVariant)[0].Description)
	assert.Nil(t, rec.requirementsAt("unknown"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("eng")
	if assert.NotNil(t, v) {
		assert.Equal(t, "eng", *v)
	}
}

// failingTx is a transaction whose rollback always fails
type failingTx struct {
	pgx.Tx
	err   error
	calls int
}

func (tx *failingTx) Rollback(context.Context) error {
	tx.calls++
	return tx.err
}

func TestRollback_WritesNothingToStdout(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"already committed", pgx.ErrTxClosed},
		{"connection lost", errors.New("conn closed")},
		{"context canceled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w, err := os.Pipe()
			require.NoError(t, err)
			stdout := os.Stdout
			os.Stdout = w
			t.Cleanup(func() { os.Stdout = stdout })

			tx := &failingTx{err: tt.err}
			rollback(context.Background(), tx)

			require.NoError(t, w.Close())
			os.Stdout = stdout
			out, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, 1, tx.calls)
			assert.Empty(t, string(out))
		})
	}
}
