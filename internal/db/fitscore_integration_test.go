//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	// Clean up test data before each test
	_, _ = db.pool.Exec(ctx, "DELETE FROM candidates WHERE id LIKE 'itest-%'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM requirements WHERE owner_id LIKE 'itest-%'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM job_variants WHERE id LIKE 'itest-%'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM job_templates WHERE id LIKE 'itest-%'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM job_families WHERE id LIKE 'itest-%'")

	return db
}

func TestIntegration_EnsureSchemaIdempotent(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	require.NoError(t, db.EnsureSchema(context.Background()))
}

func TestIntegration_Candidate_RoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	profile := &types.CandidateProfile{
		ID:      "itest-cand-1",
		Summary: "Platform engineer",
		Skills: []types.CandidateSkill{
			{Name: "Golang", YearsOfExperience: 5},
			{Name: "Terraform", YearsOfExperience: 2.5},
		},
		Experience: []types.CandidateExperience{
			{Title: "SRE", Company: "Acme", Description: "Ran Kubernetes clusters"},
		},
		Education: []types.CandidateEducation{
			{Degree: "BSc", FieldOfStudy: "Computer Science"},
		},
	}

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, db.UpsertCandidate(ctx, profile))

		got, err := db.GetCandidate(ctx, profile.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, profile, got)
	})

	t.Run("update replaces details", func(t *testing.T) {
		updated := *profile
		updated.Skills = []types.CandidateSkill{{Name: "Rust", YearsOfExperience: 1}}
		updated.Experience = nil
		require.NoError(t, db.UpsertCandidate(ctx, &updated))

		got, err := db.GetCandidate(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Skills, got.Skills)
		assert.Empty(t, got.Experience)
	})

	t.Run("list ids", func(t *testing.T) {
		ids, err := db.ListCandidateIDs(ctx, 0)
		require.NoError(t, err)
		assert.Contains(t, ids, profile.ID)
	})

	t.Run("missing returns nil", func(t *testing.T) {
		got, err := db.GetCandidate(ctx, "itest-missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete cascades to details", func(t *testing.T) {
		_, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, profile.ID)
		require.NoError(t, err)

		var skills int
		require.NoError(t, db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM candidate_skills WHERE candidate_id = $1`, profile.ID).Scan(&skills))
		assert.Zero(t, skills)

		got, err := db.GetCandidate(ctx, profile.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntegration_Job_RequirementLevels(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	rec := &JobRecord{
		FamilyID:      "itest-eng",
		FamilyName:    "Engineering",
		TemplateID:    "itest-frontend",
		TemplateTitle: "Frontend Engineer",
		Company:       "Acme",
		Set: types.JobRequirementSet{
			JobID:    "itest-frontend-acme",
			Title:    "Frontend Engineer, Payments",
			Family:   []types.Requirement{{ID: "fam-1", Description: "React experience", Category: types.CategoryMust, Weight: 3}},
			Template: []types.Requirement{{Description: "TypeScript", Category: types.CategoryShould, Alternatives: []string{"TS"}}},
			Variant:  []types.Requirement{{ID: "var-1", Description: "React Experience", Category: types.CategoryMust, Weight: 9, Type: types.RequirementSkill}},
		},
	}
	require.NoError(t, db.SaveJob(ctx, rec))

	set, err := db.GetRequirementsForJob(ctx, "itest-frontend-acme")
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, "Frontend Engineer, Payments", set.Title)
	require.Len(t, set.Family, 1)
	assert.Equal(t, "fam-1", set.Family[0].ID)
	assert.Equal(t, types.LevelFamily, set.Family[0].Level)

	require.Len(t, set.Template, 1)
	assert.Equal(t, types.DefaultWeight, set.Template[0].Weight)
	assert.Equal(t, []string{"TS"}, set.Template[0].Alternatives)
	assert.NotEmpty(t, set.Template[0].ID)

	require.Len(t, set.Variant, 1)
	assert.Equal(t, 9, set.Variant[0].Weight)
	assert.Equal(t, types.RequirementSkill, set.Variant[0].Type)

	t.Run("save replaces requirements", func(t *testing.T) {
		rec.Set.Variant = nil
		require.NoError(t, db.SaveJob(ctx, rec))
		set, err := db.GetRequirementsForJob(ctx, "itest-frontend-acme")
		require.NoError(t, err)
		assert.Empty(t, set.Variant)
		assert.Len(t, set.Family, 1)
	})

	t.Run("missing job returns nil", func(t *testing.T) {
		set, err := db.GetRequirementsForJob(ctx, "itest-missing")
		require.NoError(t, err)
		assert.Nil(t, set)
	})
}
