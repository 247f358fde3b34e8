package scoring

import (
	"context"
	"strings"

	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/fuzzy"
	"github.com/jonathan/fit-scorer/internal/keywords"
	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// Candidate is a profile prepared for scoring: its composite text, embedding
// and keywords are computed once and reused for every requirement.
type Candidate struct {
	Profile  *types.CandidateProfile
	Text     string
	Vector   []float64
	Keywords []string

	keywordSet []string // unique keywords in first-seen order
}

// RequirementScore is the score of one requirement with its components.
type RequirementScore struct {
	Requirement types.Requirement
	Semantic    float64
	Keyword     float64
	Combined    float64
	Matched     bool
}

// Scorer computes requirement match confidence for prepared candidates.
type Scorer struct {
	provider embedding.Provider
	policy   Policy
}

// NewScorer creates a Scorer using provider for semantic similarity.
func NewScorer(provider embedding.Provider, policy Policy) *Scorer {
	return &Scorer{provider: provider, policy: policy}
}

// Policy returns the scorer's policy
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Prepare builds the composite text of profile and embeds it.
func (s *Scorer) Prepare(ctx context.Context, profile *types.CandidateProfile) (*Candidate, error) {
	text := profile.Text()
	vec, err := s.embed(ctx, text)
	if err != nil {
		return nil, err
	}

	kws := keywords.Extract(text)
	return &Candidate{
		Profile:    profile,
		Text:       text,
		Vector:     vec,
		Keywords:   kws,
		keywordSet: unique(kws),
	}, nil
}

// Score computes the match of one requirement against a prepared candidate.
func (s *Scorer) Score(ctx context.Context, c *Candidate, req types.Requirement) (RequirementScore, error) {
	reqVec, err := s.embed(ctx, req.Description)
	if err != nil {
		return RequirementScore{}, err
	}

	semantic := vectorindex.CosineSimilarity(c.Vector, reqVec)
	keyword := KeywordSimilarity(c.keywordSet, keywords.Extract(req.Description), s.policy.FuzzyThreshold)
	combined := s.policy.Combine(semantic, keyword)

	return RequirementScore{
		Requirement: req,
		Semantic:    semantic,
		Keyword:     keyword,
		Combined:    combined,
		Matched:     s.policy.Matched(combined),
	}, nil
}

// ScoreText scores a requirement against raw candidate text.
func (s *Scorer) ScoreText(ctx context.Context, candidateText string, req types.Requirement) (float64, error) {
	vec, err := s.embed(ctx, candidateText)
	if err != nil {
		return 0, err
	}
	kws := keywords.Extract(candidateText)
	c := &Candidate{Text: candidateText, Vector: vec, Keywords: kws, keywordSet: unique(kws)}

	rs, err := s.Score(ctx, c, req)
	if err != nil {
		return 0, err
	}
	return rs.Combined, nil
}

// KeywordSimilarity returns the fraction of requirement keywords that have a
// matching candidate keyword. Two keywords match when one contains the other
// or their edit-distance similarity exceeds fuzzyThreshold. A requirement
// without keywords scores 0.
func KeywordSimilarity(candidateKeywords, requirementKeywords []string, fuzzyThreshold float64) float64 {
	if len(requirementKeywords) == 0 {
		return 0
	}

	matched := 0
	for _, rk := range requirementKeywords {
		for _, ck := range candidateKeywords {
			if KeywordsMatch(ck, rk, fuzzyThreshold) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(requirementKeywords))
}

// KeywordsMatch reports whether two keywords are considered the same term.
func KeywordsMatch(a, b string, fuzzyThreshold float64) bool {
	if a == "" || b == "" {
		return a == b
	}
	if containsEither(a, b) {
		return true
	}
	return fuzzy.Similarity(a, b) > fuzzyThreshold
}

// embed returns the provider's vector for text. Blank text has no vector and
// never reaches the provider, so its semantic similarity is always 0.
func (s *Scorer) embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if types.IsProvider(err) {
			return nil, err
		}
		return nil, &types.ProviderError{Op: "embed", Cause: err}
	}
	return vec, nil
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
