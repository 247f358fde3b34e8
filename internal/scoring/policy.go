// Package scoring computes requirement match confidence and aggregates it into
// category and overall fit scores.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/fit-scorer/internal/types"
)

// Default policy constants
const (
	DefaultMatchThreshold    = 0.7
	DefaultKeywordDamping    = 0.8
	DefaultFuzzyThreshold    = 0.8
	DefaultMustWeight        = 0.6
	DefaultShouldWeight      = 0.3
	DefaultNiceWeight        = 0.1
	DefaultStrengthThreshold = 0.8
	DefaultImprovementFloor  = 0.5
)

// weightTolerance bounds float drift when checking category weights sum to 1
const weightTolerance = 1e-6

// Policy holds the tunable constants of the scoring pipeline.
type Policy struct {
	// MatchThreshold is the combined score at or above which a requirement is matched.
	MatchThreshold float64 `json:"match_threshold" mapstructure:"match_threshold"`
	// KeywordDamping scales keyword similarity before it competes with semantic similarity.
	KeywordDamping float64 `json:"keyword_damping" mapstructure:"keyword_damping"`
	// FuzzyThreshold is the edit-distance similarity two keywords must exceed to match.
	FuzzyThreshold float64 `json:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`

	MustWeight   float64 `json:"must_weight" mapstructure:"must_weight"`
	ShouldWeight float64 `json:"should_weight" mapstructure:"should_weight"`
	NiceWeight   float64 `json:"nice_weight" mapstructure:"nice_weight"`

	// StrengthThreshold is the confidence a matched requirement needs to be listed as a strength.
	StrengthThreshold float64 `json:"strength_threshold" mapstructure:"strength_threshold"`
	// ImprovementFloor is the lowest confidence that still earns a "could strengthen" recommendation.
	ImprovementFloor float64 `json:"improvement_floor" mapstructure:"improvement_floor"`
}

// DefaultPolicy returns the standard product-tuned constants.
func DefaultPolicy() Policy {
	return Policy{
		MatchThreshold:    DefaultMatchThreshold,
		KeywordDamping:    DefaultKeywordDamping,
		FuzzyThreshold:    DefaultFuzzyThreshold,
		MustWeight:        DefaultMustWeight,
		ShouldWeight:      DefaultShouldWeight,
		NiceWeight:        DefaultNiceWeight,
		StrengthThreshold: DefaultStrengthThreshold,
		ImprovementFloor:  DefaultImprovementFloor,
	}
}

// Validate checks every constant is in [0,1] and the category weights sum to 1.
func (p Policy) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"match_threshold", p.MatchThreshold},
		{"keyword_damping", p.KeywordDamping},
		{"fuzzy_threshold", p.FuzzyThreshold},
		{"must_weight", p.MustWeight},
		{"should_weight", p.ShouldWeight},
		{"nice_weight", p.NiceWeight},
		{"strength_threshold", p.StrengthThreshold},
		{"improvement_floor", p.ImprovementFloor},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 || math.IsNaN(f.value) {
			return &types.ValidationError{Field: f.name, Message: fmt.Sprintf("must be between 0 and 1, got %g", f.value)}
		}
	}

	sum := p.MustWeight + p.ShouldWeight + p.NiceWeight
	if math.Abs(sum-1) > weightTolerance {
		return &types.ValidationError{Field: "category weights", Message: fmt.Sprintf("must sum to 1, got %g", sum)}
	}
	if p.ImprovementFloor > p.MatchThreshold {
		return &types.ValidationError{Field: "improvement_floor", Message: "must not exceed match_threshold"}
	}
	return nil
}

// CategoryWeight returns the overall-score weight of a category.
func (p Policy) CategoryWeight(c types.Category) float64 {
	switch c {
	case types.CategoryMust:
		return p.MustWeight
	case types.CategoryShould:
		return p.ShouldWeight
	case types.CategoryNice:
		return p.NiceWeight
	default:
		return 0
	}
}

// Combine merges semantic and keyword similarity into one confidence in [0,1].
// Negative semantic similarity counts as no match.
func (p Policy) Combine(semantic, keyword float64) float64 {
	return clamp01(math.Max(clamp01(semantic), keyword*p.KeywordDamping))
}

// Matched reports whether a combined score counts as a match.
func (p Policy) Matched(score float64) bool {
	return score >= p.MatchThreshold
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
