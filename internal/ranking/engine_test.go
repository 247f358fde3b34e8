package ranking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fit-scorer/internal/types"
)

func scenarioEngine(provider *mapProvider) *Engine {
	candidates := stubCandidates{
		"js-dev": {
			ID:     "js-dev",
			Skills: []types.CandidateSkill{{Name: "JavaScript", YearsOfExperience: 3}},
		},
		"java-dev": {
			ID:     "java-dev",
			Skills: []types.CandidateSkill{{Name: "Java", YearsOfExperience: 5}},
		},
	}
	reqs := stubRequirements{
		"js-job": {
			JobID:   "js-job",
			Title:   "Frontend Engineer",
			Variant: []types.Requirement{{ID: "r1", Description: "JavaScript proficiency", Category: types.CategoryMust, Weight: 8}},
		},
		"py-job": {
			JobID:  "py-job",
			Title:  "Data Engineer",
			Family: []types.Requirement{{ID: "r1", Description: "Python", Category: types.CategoryMust, Weight: 5}},
		},
		"empty-job": {JobID: "empty-job", Title: "Generalist"},
	}
	return NewEngine(candidates, reqs, provider, nil, DefaultConfig())
}

func orthogonalProvider() *mapProvider {
	p := newMapProvider()
	p.vectors["JavaScript"] = []float64{1, 0}
	p.vectors["JavaScript proficiency"] = []float64{0, 1}
	p.vectors["Java"] = []float64{1, 0}
	p.vectors["Python"] = []float64{0, 1}
	return p
}

func TestMatchCandidateToJob_ScenarioA(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())

	result, err := e.MatchCandidateToJob(context.Background(), "js-dev", "js-job")
	require.NoError(t, err)

	require.Len(t, result.DetailedAnalysis, 1)
	m := result.DetailedAnalysis[0]
	assert.True(t, m.Matched)
	assert.InDelta(t, 0.8, m.Confidence, 1e-9)
	assert.Equal(t, []string{"Skill: JavaScript (3 years)"}, m.Evidence)
	assert.Equal(t, `Strong match (80% confidence) for "JavaScript proficiency". Evidence: Skill: JavaScript (3 years).`, m.Explanation)

	assert.Equal(t, "js-dev", result.CandidateID)
	assert.Equal(t, "js-job", result.JobVariantID)
	assert.Greater(t, result.Breakdown.MustHaveScore, 70)
	assert.Equal(t, 100, result.Breakdown.ShouldHaveScore)
	assert.Equal(t, 100, result.Breakdown.NiceToHaveScore)
	assert.Equal(t, 88, result.FitScore)
	assert.Equal(t, []string{"JavaScript proficiency"}, result.Strengths)
	assert.Empty(t, result.Gaps)
}

func TestMatchCandidateToJob_ScenarioB(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())

	result, err := e.MatchCandidateToJob(context.Background(), "java-dev", "py-job")
	require.NoError(t, err)

	require.Len(t, result.DetailedAnalysis, 1)
	assert.False(t, result.DetailedAnalysis[0].Matched)
	assert.Less(t, result.DetailedAnalysis[0].Confidence, 0.7)
	assert.Equal(t, []string{"Python"}, result.Gaps)
	assert.Equal(t, []string{"Consider training/certification in Python"}, result.Recommendations)
	assert.Contains(t, result.DetailedAnalysis[0].Explanation, "No direct evidence found.")
}

func TestMatchCandidateToJob_NoRequirements(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())

	result, err := e.MatchCandidateToJob(context.Background(), "js-dev", "empty-job")
	require.NoError(t, err)
	assert.Equal(t, 100, result.FitScore)
	assert.Equal(t, types.ScoreBreakdown{MustHaveScore: 100, ShouldHaveScore: 100, NiceToHaveScore: 100}, result.Breakdown)
	assert.Empty(t, result.DetailedAnalysis)
}

func TestMatchCandidateToJob_Deterministic(t *testing.T) {
	e := scenarioEngine(newMapProvider())

	first, err := e.MatchCandidateToJob(context.Background(), "js-dev", "js-job")
	require.NoError(t, err)
	second, err := e.MatchCandidateToJob(context.Background(), "js-dev", "js-job")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMatchCandidateToJob_NotFound(t *testing.T) {
	provider := orthogonalProvider()
	e := scenarioEngine(provider)

	_, err := e.MatchCandidateToJob(context.Background(), "js-dev", "missing-job")
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))

	_, err = e.MatchCandidateToJob(context.Background(), "nobody", "js-job")
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))

	assert.Zero(t, provider.calls.Load(), "no scoring before references resolve")
}

func TestMatchCandidateToJob_ProviderFailureIsHard(t *testing.T) {
	provider := orthogonalProvider()
	provider.failOn = "proficiency"
	e := scenarioEngine(provider)

	result, err := e.MatchCandidateToJob(context.Background(), "js-dev", "js-job")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, types.IsProvider(err))
}

func TestMatchCandidateToJob_Cancelled(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.MatchCandidateToJob(ctx, "js-dev", "js-job")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchCandidateToJob_EmbedsEachTextOnce(t *testing.T) {
	provider := newMapProvider()
	candidates := stubCandidates{"c1": {ID: "c1", Summary: "Go developer"}}
	reqs := stubRequirements{"j1": {JobID: "j1", Family: []types.Requirement{
		{Description: "Golang", Category: types.CategoryMust, Weight: 5},
		{Description: "Golang", Category: types.CategoryMust, Weight: 5, Level: types.LevelFamily, ID: "dup"},
		{Description: "Docker", Category: types.CategoryNice, Weight: 5},
	}}}
	e := NewEngine(candidates, reqs, provider, nil, DefaultConfig())

	_, err := e.MatchCandidateToJob(context.Background(), "c1", "j1")
	require.NoError(t, err)
	// candidate text, "Golang", "Docker"
	assert.EqualValues(t, 3, provider.calls.Load())
}

func TestScoreProfile(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())
	reqs := []types.Requirement{{Description: "JavaScript proficiency", Category: types.CategoryMust, Weight: 8}}

	result, err := e.ScoreProfile(context.Background(), &types.CandidateProfile{
		ID:     "adhoc",
		Skills: []types.CandidateSkill{{Name: "JavaScript"}},
	}, "adhoc-job", reqs)
	require.NoError(t, err)
	assert.Equal(t, 88, result.FitScore)

	_, err = e.ScoreProfile(context.Background(), nil, "adhoc-job", reqs)
	assert.True(t, types.IsValidation(err))

	_, err = e.ScoreProfile(context.Background(), &types.CandidateProfile{}, "adhoc-job", reqs)
	assert.True(t, types.IsValidation(err))
}

func TestRequirements(t *testing.T) {
	e := scenarioEngine(orthogonalProvider())
	agg, err := e.Requirements(context.Background(), "js-job")
	require.NoError(t, err)
	assert.Equal(t, "Frontend Engineer", agg.Title)
	require.Len(t, agg.Requirements, 1)
	assert.Equal(t, types.LevelVariant, agg.Requirements[0].Level)
}
