package scoring

import (
	"math"

	"github.com/jonathan/fit-scorer/internal/types"
)

// EmptyCategoryScore is the score of a category with no requirements.
// Missing requirements never penalise a candidate.
const EmptyCategoryScore = 100.0

// CategoryScores holds unrounded per-category scores on a 0-100 scale.
type CategoryScores struct {
	Must   float64
	Should float64
	Nice   float64
}

// CategoryScore returns the requirement-weight weighted mean of the combined
// scores, scaled to 0-100, or EmptyCategoryScore when scores is empty.
func CategoryScore(scores []RequirementScore) float64 {
	if len(scores) == 0 {
		return EmptyCategoryScore
	}

	var weighted, total float64
	for _, s := range scores {
		w := float64(s.Requirement.Weight)
		weighted += s.Combined * w
		total += w
	}
	if total == 0 {
		return EmptyCategoryScore
	}
	return weighted / total * 100
}

// Categorize computes the score of every category from a flat score list.
func Categorize(scores []RequirementScore) CategoryScores {
	buckets := make(map[types.Category][]RequirementScore, len(types.Categories))
	for _, s := range scores {
		buckets[s.Requirement.Category] = append(buckets[s.Requirement.Category], s)
	}
	return CategoryScores{
		Must:   CategoryScore(buckets[types.CategoryMust]),
		Should: CategoryScore(buckets[types.CategoryShould]),
		Nice:   CategoryScore(buckets[types.CategoryNice]),
	}
}

// Overall combines category scores with the policy weights and rounds to the
// nearest integer.
func (p Policy) Overall(c CategoryScores) int {
	return int(math.Round(c.Must*p.MustWeight + c.Should*p.ShouldWeight + c.Nice*p.NiceWeight))
}

// Breakdown rounds category scores for reporting.
func (c CategoryScores) Breakdown() types.ScoreBreakdown {
	return types.ScoreBreakdown{
		MustHaveScore:   int(math.Round(c.Must)),
		ShouldHaveScore: int(math.Round(c.Should)),
		NiceToHaveScore: int(math.Round(c.Nice)),
	}
}
