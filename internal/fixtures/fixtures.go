// Package fixtures loads candidate and job documents from YAML or JSON files
// into an in-memory store that serves both candidate and requirement lookups.
package fixtures

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/fit-scorer/internal/schemas"
	"github.com/jonathan/fit-scorer/internal/types"
)

// CandidateDocument is a candidate profile plus the jobs the candidate applied to.
type CandidateDocument struct {
	types.CandidateProfile `yaml:",inline"`
	AppliedJobs            []string `json:"applied_jobs,omitempty" yaml:"applied_jobs,omitempty"`
}

// JobDocument is a job variant with its hierarchy identifiers.
type JobDocument struct {
	types.JobRequirementSet `yaml:",inline"`
	Company                 string `json:"company,omitempty" yaml:"company,omitempty"`
	FamilyID                string `json:"family_id,omitempty" yaml:"family_id,omitempty"`
	FamilyName              string `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	TemplateID              string `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	TemplateTitle           string `json:"template_title,omitempty" yaml:"template_title,omitempty"`
}

// Document is the top-level fixture file layout.
type Document struct {
	Candidates []CandidateDocument `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Jobs       []JobDocument       `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// Store is an in-memory candidate and requirement repository.
type Store struct {
	mu         sync.RWMutex
	candidates map[string]CandidateDocument
	jobs       map[string]JobDocument
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		candidates: make(map[string]CandidateDocument),
		jobs:       make(map[string]JobDocument),
	}
}

// Load reads and validates one or more fixture files into a new store.
func Load(paths ...string) (*Store, error) {
	s := NewStore()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("invalid fixtures %s: %w", path, err)
		}
		s.Add(doc)
	}
	return s, nil
}

// Parse decodes a YAML or JSON fixture document and validates every entry
// against the embedded candidate and job schemas.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	for key := range raw {
		if key != "candidates" && key != "jobs" {
			return nil, &types.ValidationError{Field: key, Message: "unknown top-level key"}
		}
	}
	if err := validateEntries(raw["candidates"], schemas.CandidateSchema, "candidates"); err != nil {
		return nil, err
	}
	if err := validateEntries(raw["jobs"], schemas.JobSchema, "jobs"); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

func validateEntries(value any, schemaName, field string) error {
	if value == nil {
		return nil
	}
	entries, ok := value.([]any)
	if !ok {
		return &types.ValidationError{Field: field, Message: "must be a list"}
	}
	for i, entry := range entries {
		if err := schemas.ValidateDocument(schemaName, entry); err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
	}
	return nil
}

// Add merges a document into the store; entries with an existing id replace it.
func (s *Store) Add(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range doc.Candidates {
		s.candidates[c.ID] = c
	}
	for _, j := range doc.Jobs {
		s.jobs[j.JobID] = j
	}
}

// GetCandidate returns a copy of the stored profile, or nil, nil if unknown.
func (s *Store) GetCandidate(_ context.Context, id string) (*types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	p := c.CandidateProfile
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	return &p, nil
}

// GetRequirementsForJob returns a copy of the job's requirement levels, or nil, nil if unknown.
func (s *Store) GetRequirementsForJob(_ context.Context, jobID string) (*types.JobRequirementSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	set := j.JobRequirementSet
	set.Family = cloneRequirements(set.Family)
	set.Template = cloneRequirements(set.Template)
	set.Variant = cloneRequirements(set.Variant)
	return &set, nil
}

// Candidates returns every candidate document ordered by id.
func (s *Store) Candidates() []CandidateDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CandidateDocument, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Jobs returns every job document ordered by id.
func (s *Store) Jobs() []JobDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobDocument, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobID < out[j].JobID })
	return out
}

func cloneRequirements(reqs []types.Requirement) []types.Requirement {
	if reqs == nil {
		return nil
	}
	out := make([]types.Requirement, len(reqs))
	for i, r := range reqs {
		r.Alternatives = slices.Clone(r.Alternatives)
		out[i] = r
	}
	return out
}
