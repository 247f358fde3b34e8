// Package types provides type definitions for structured data used throughout the fit-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

// Category is the priority bucket of a requirement.
type Category string

// Requirement categories
const (
	CategoryMust   Category = "MUST"
	CategoryShould Category = "SHOULD"
	CategoryNice   Category = "NICE"
)

// Categories lists every category in scoring order.
var Categories = []Category{CategoryMust, CategoryShould, CategoryNice}

// RequirementType classifies what a requirement is about. It is optional.
type RequirementType string

// Requirement types
const (
	RequirementSkill      RequirementType = "SKILL"
	RequirementExperience RequirementType = "EXPERIENCE"
	RequirementEducation  RequirementType = "EDUCATION"
	RequirementOther      RequirementType = "OTHER"
)

// Level is the job hierarchy level a requirement was defined at.
// More specific levels override less specific ones.
type Level string

// Requirement levels, least specific first
const (
	LevelFamily   Level = "family"
	LevelTemplate Level = "template"
	LevelVariant  Level = "variant"
)

// DefaultWeight is applied to requirements stored without a weight.
const DefaultWeight = 5

// Requirement is a single weighted, categorized job requirement.
type Requirement struct {
	ID           string          `json:"id" yaml:"id"`
	Type         RequirementType `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=SKILL EXPERIENCE EDUCATION OTHER"`
	Category     Category        `json:"category" yaml:"category" validate:"required,oneof=MUST SHOULD NICE"`
	Description  string          `json:"description" yaml:"description" validate:"required,min=3"`
	Weight       int             `json:"weight" yaml:"weight" validate:"min=1,max=10"`
	Alternatives []string        `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Level        Level           `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=family template variant"`
}

// NormalizedDescription returns the key used to detect overriding requirements:
// trimmed and case-folded description text.
func (r *Requirement) NormalizedDescription() string {
	return cases.Fold().String(strings.TrimSpace(r.Description))
}

// WithDefaults returns a copy with the description trimmed and a zero weight
// replaced by DefaultWeight.
func (r Requirement) WithDefaults() Requirement {
	r.Description = strings.TrimSpace(r.Description)
	if r.Weight == 0 {
		r.Weight = DefaultWeight
	}
	return r
}

// Validate checks description length, weight range and enum fields.
// It returns a *ValidationError naming the first failing field.
func (r *Requirement) Validate() error {
	if err := validate.Struct(r); err != nil {
		return toValidationError(err)
	}
	return nil
}

// JobRequirementSet is everything a requirement repository knows about one job
// variant: its title and the requirements defined at each hierarchy level.
type JobRequirementSet struct {
	JobID    string        `json:"job_id" yaml:"job_id"`
	Title    string        `json:"title" yaml:"title"`
	Family   []Requirement `json:"family,omitempty" yaml:"family,omitempty"`
	Template []Requirement `json:"template,omitempty" yaml:"template,omitempty"`
	Variant  []Requirement `json:"variant,omitempty" yaml:"variant,omitempty"`
}

var validate = validator.New()

func toValidationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		}
	}
	return &ValidationError{Message: err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
