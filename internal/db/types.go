package db

import "github.com/jonathan/fit-scorer/internal/types"

// JobRecord describes one job variant and the hierarchy it belongs to.
// Requirements in Set are stored against the level they appear in.
type JobRecord struct {
	FamilyID      string
	FamilyName    string
	TemplateID    string
	TemplateTitle string
	Company       string
	Set           types.JobRequirementSet
}

// requirementOwner pairs a hierarchy level with the row that owns its requirements.
type requirementOwner struct {
	level types.Level
	id    string
}

// owners lists the non-empty levels of a job, least specific first.
func (r *JobRecord) owners() []requirementOwner {
	all := []requirementOwner{
		{types.LevelFamily, r.FamilyID},
		{types.LevelTemplate, r.TemplateID},
		{types.LevelVariant, r.Set.JobID},
	}
	out := make([]requirementOwner, 0, len(all))
	for _, o := range all {
		if o.id != "" {
			out = append(out, o)
		}
	}
	return out
}

// requirementsAt returns the requirements of the record defined at level.
func (r *JobRecord) requirementsAt(level types.Level) []types.Requirement {
	switch level {
	case types.LevelFamily:
		return r.Set.Family
	case types.LevelTemplate:
		return r.Set.Template
	case types.LevelVariant:
		return r.Set.Variant
	default:
		return nil
	}
}

// nullIfEmpty maps "" to a SQL NULL for optional foreign keys
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
