// Package evidence finds supporting entries in a candidate profile and renders
// human-readable explanations and insights for requirement matches.
package evidence

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/fit-scorer/internal/keywords"
	"github.com/jonathan/fit-scorer/internal/types"
)

// Find scans skills, then experience, then education for entries whose text
// contains, or is contained by, a keyword of the requirement description or
// one of its alternatives. At most types.MaxEvidence strings are returned.
func Find(profile *types.CandidateProfile, req types.Requirement) []string {
	terms := requirementTerms(req)
	out := make([]string, 0, types.MaxEvidence)
	if len(terms) == 0 || profile == nil {
		return out
	}

	add := func(entryText, line string) bool {
		if mentions(keywords.Normalize(entryText), terms) {
			out = append(out, line)
		}
		return len(out) >= types.MaxEvidence
	}

	for _, s := range profile.Skills {
		if add(s.Name, formatSkill(s)) {
			return out
		}
	}
	for _, e := range profile.Experience {
		if add(e.Title+" "+e.Description, fmt.Sprintf("Experience: %s at %s", e.Title, e.Company)) {
			return out
		}
	}
	for _, e := range profile.Education {
		if add(e.Degree+" "+e.FieldOfStudy, fmt.Sprintf("Education: %s in %s", e.Degree, e.FieldOfStudy)) {
			return out
		}
	}
	return out
}

// Explain renders a one-sentence explanation of a requirement match.
func Explain(req types.Requirement, matched bool, confidence float64, evidence []string) string {
	pct := int(math.Round(confidence * 100))
	joined := strings.Join(evidence, "; ")

	if matched {
		if len(evidence) == 0 {
			return fmt.Sprintf("Strong match (%d%% confidence) for %q based on overall profile similarity.", pct, req.Description)
		}
		return fmt.Sprintf("Strong match (%d%% confidence) for %q. Evidence: %s.", pct, req.Description, joined)
	}
	if len(evidence) == 0 {
		return fmt.Sprintf("Partial match (%d%% confidence) for %q. No direct evidence found.", pct, req.Description)
	}
	return fmt.Sprintf("Partial match (%d%% confidence) for %q. Related evidence: %s.", pct, req.Description, joined)
}

// Analyze assembles the RequirementMatch for a scored requirement.
func Analyze(profile *types.CandidateProfile, req types.Requirement, matched bool, confidence float64) types.RequirementMatch {
	ev := Find(profile, req)
	return types.RequirementMatch{
		Requirement: req,
		Matched:     matched,
		Confidence:  confidence,
		Evidence:    ev,
		Explanation: Explain(req, matched, confidence, ev),
	}
}

func formatSkill(s types.CandidateSkill) string {
	return fmt.Sprintf("Skill: %s (%s years)", s.Name, strconv.FormatFloat(s.YearsOfExperience, 'f', -1, 64))
}

func requirementTerms(req types.Requirement) []string {
	terms := keywords.Extract(req.Description)
	for _, alt := range req.Alternatives {
		terms = append(terms, keywords.Extract(alt)...)
	}
	return terms
}

// mentions is true when text contains a term or a term contains the whole text.
func mentions(text string, terms []string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, t := range terms {
		if strings.Contains(text, t) || strings.Contains(t, text) {
			return true
		}
	}
	return false
}
