package evidence

import (
	"fmt"
	"sort"

	"github.com/jonathan/fit-scorer/internal/types"
)

// Thresholds controls which matches become strengths and recommendations.
type Thresholds struct {
	// Strength is the minimum confidence of a matched requirement listed as a strength.
	Strength float64
	// ImprovementFloor is the minimum confidence of an unmatched requirement
	// that gets a "could strengthen" recommendation.
	ImprovementFloor float64
}

// Insights summarises a detailed analysis.
type Insights struct {
	Strengths       []string
	Gaps            []string
	Recommendations []string
}

// Summarize extracts strengths, gaps and recommendations from the matches.
// Strengths are ordered by confidence and gaps by requirement weight, both
// descending with ties kept in analysis order.
func Summarize(matches []types.RequirementMatch, th Thresholds) Insights {
	strengths := make([]types.RequirementMatch, 0)
	gaps := make([]types.RequirementMatch, 0)
	for _, m := range matches {
		if m.Matched && m.Confidence >= th.Strength {
			strengths = append(strengths, m)
		}
		if !m.Matched && m.Requirement.Category == types.CategoryMust {
			gaps = append(gaps, m)
		}
	}

	sort.SliceStable(strengths, func(i, j int) bool {
		return strengths[i].Confidence > strengths[j].Confidence
	})
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Requirement.Weight > gaps[j].Requirement.Weight
	})
	strengths = truncate(strengths, types.MaxStrengths)
	gaps = truncate(gaps, types.MaxGaps)

	out := Insights{
		Strengths:       descriptions(strengths),
		Gaps:            descriptions(gaps),
		Recommendations: make([]string, 0, types.MaxRecommendations),
	}

	inGaps := make(map[string]struct{}, len(out.Gaps))
	for _, g := range gaps {
		inGaps[g.Requirement.NormalizedDescription()] = struct{}{}
		out.Recommendations = append(out.Recommendations, fmt.Sprintf("Consider training/certification in %s", g.Requirement.Description))
	}

	improvable := make([]types.RequirementMatch, 0)
	for _, m := range matches {
		if m.Matched || m.Confidence < th.ImprovementFloor {
			continue
		}
		if _, ok := inGaps[m.Requirement.NormalizedDescription()]; ok {
			continue
		}
		improvable = append(improvable, m)
	}
	sort.SliceStable(improvable, func(i, j int) bool {
		return improvable[i].Confidence > improvable[j].Confidence
	})
	for _, m := range improvable {
		out.Recommendations = append(out.Recommendations, fmt.Sprintf("Could strengthen %s skills", m.Requirement.Description))
	}
	out.Recommendations = truncate(out.Recommendations, types.MaxRecommendations)

	return out
}

func descriptions(matches []types.RequirementMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Requirement.Description)
	}
	return out
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
