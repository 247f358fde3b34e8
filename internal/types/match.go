package types

// Caps on the insight lists of a MatchResult
const (
	MaxEvidence        = 3
	MaxStrengths       = 5
	MaxGaps            = 3
	MaxRecommendations = 3
)

// RequirementMatch is the scoring outcome for one requirement.
type RequirementMatch struct {
	Requirement Requirement `json:"requirement"`
	Matched     bool        `json:"matched"`
	Confidence  float64     `json:"confidence"`
	Evidence    []string    `json:"evidence"`
	Explanation string      `json:"explanation"`
}

// ScoreBreakdown holds the per-category sub-scores, each 0-100.
type ScoreBreakdown struct {
	MustHaveScore   int `json:"must_have_score"`
	ShouldHaveScore int `json:"should_have_score"`
	NiceToHaveScore int `json:"nice_to_have_score"`
}

// MatchResult is the full fit assessment of one candidate against one job variant.
type MatchResult struct {
	CandidateID      string             `json:"candidate_id"`
	JobVariantID     string             `json:"job_variant_id"`
	FitScore         int                `json:"fit_score"`
	Breakdown        ScoreBreakdown     `json:"breakdown"`
	Strengths        []string           `json:"strengths"`
	Gaps             []string           `json:"gaps"`
	Recommendations  []string           `json:"recommendations"`
	DetailedAnalysis []RequirementMatch `json:"detailed_analysis"`
}

// Shortlist defaults
const (
	DefaultMinFitScore = 60
	DefaultMaxResults  = 50
)

// ShortlistOptions tunes FindMatchingCandidates.
type ShortlistOptions struct {
	MinFitScore int `json:"min_fit_score" validate:"min=0,max=100"`
	MaxResults  int `json:"max_results" validate:"min=1,max=1000"`
	// ApplicantsOnly restricts the vector pre-filter to candidates tagged with the job id.
	ApplicantsOnly bool `json:"applicants_only"`
}

// DefaultShortlistOptions returns minFitScore=60, maxResults=50.
func DefaultShortlistOptions() ShortlistOptions {
	return ShortlistOptions{
		MinFitScore: DefaultMinFitScore,
		MaxResults:  DefaultMaxResults,
	}
}

// Validate checks option ranges.
func (o *ShortlistOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return toValidationError(err)
	}
	return nil
}

// ShortlistResult is a ranked shortlist plus counters describing how it was built.
type ShortlistResult struct {
	JobID   string        `json:"job_id"`
	Matches []MatchResult `json:"matches"`
	// Prefiltered is how many candidates the vector index returned.
	Prefiltered int `json:"prefiltered"`
	// Scored is how many of them completed full scoring.
	Scored int `json:"scored"`
	// Skipped counts candidates dropped because scoring them failed.
	Skipped int `json:"skipped"`
}
