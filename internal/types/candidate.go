package types

import "strings"

// CandidateSkill is a named skill with years of hands-on use.
type CandidateSkill struct {
	Name              string  `json:"name" yaml:"name" validate:"required"`
	YearsOfExperience float64 `json:"years_of_experience" yaml:"years_of_experience" validate:"min=0"`
}

// CandidateExperience is one employment history entry.
type CandidateExperience struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CandidateEducation is one education history entry.
type CandidateEducation struct {
	Degree       string `json:"degree" yaml:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty" yaml:"field_of_study,omitempty"`
}

// CandidateProfile is the read-only scoring input describing one candidate.
type CandidateProfile struct {
	ID         string                `json:"id" yaml:"id" validate:"required"`
	Summary    string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Skills     []CandidateSkill      `json:"skills,omitempty" yaml:"skills,omitempty" validate:"dive"`
	Experience []CandidateExperience `json:"experience,omitempty" yaml:"experience,omitempty"`
	Education  []CandidateEducation  `json:"education,omitempty" yaml:"education,omitempty"`
}

// Validate checks the profile has an id and well-formed skills.
func (p *CandidateProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Text builds the composite text used for both semantic and keyword scoring:
// summary, skill names, "title description" per experience entry and
// "degree fieldOfStudy" per education entry, space-joined. Blank parts are skipped.
func (p *CandidateProfile) Text() string {
	parts := make([]string, 0, 1+len(p.Skills)+len(p.Experience)+len(p.Education))
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(p.Summary)
	for _, s := range p.Skills {
		add(s.Name)
	}
	for _, e := range p.Experience {
		add(e.Title + " " + e.Description)
	}
	for _, e := range p.Education {
		add(e.Degree + " " + e.FieldOfStudy)
	}
	return strings.Join(parts, " ")
}
