// Package keywords turns free text into comparable keyword lists.
package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinLength is the shortest token kept; anything with this many runes or fewer is dropped.
const MinLength = 2

// stopWords holds articles, conjunctions, pronouns and recruiting filler that
// carry no signal about what a requirement asks for.
var stopWords = map[string]struct{}{
	// articles, conjunctions, prepositions
	"the": {}, "and": {}, "but": {}, "nor": {}, "yet": {}, "for": {}, "with": {},
	"from": {}, "into": {}, "onto": {}, "over": {}, "than": {}, "then": {}, "via": {},
	"per": {}, "about": {}, "within": {}, "across": {},
	// pronouns and auxiliaries
	"you": {}, "your": {}, "our": {}, "their": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "are": {}, "was": {}, "were": {}, "been": {}, "being": {}, "has": {},
	"have": {}, "had": {}, "will": {}, "can": {}, "should": {}, "must": {}, "not": {},
	"who": {}, "which": {}, "what": {}, "any": {}, "all": {}, "etc": {},
	// recruiting filler
	"experience": {}, "experienced": {}, "skills": {}, "skill": {}, "proficiency": {},
	"proficient": {}, "knowledge": {}, "understanding": {}, "familiarity": {},
	"familiar": {}, "ability": {}, "strong": {}, "solid": {}, "good": {}, "excellent": {},
	"years": {}, "year": {}, "working": {}, "plus": {}, "preferred": {}, "required": {},
	"requirement": {}, "requirements": {}, "including": {}, "using": {},
}

// IsStopWord reports whether a lower-cased token is in the stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Normalize lower-cases text using Unicode-aware case mapping.
func Normalize(text string) string {
	return cases.Lower(language.Und).String(text)
}

// Extract lower-cases text, splits it on runs of non-word characters and drops
// short tokens and stop-words. Order and duplicates are preserved.
func Extract(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), isSeparator)

	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= MinLength {
			continue
		}
		if IsStopWord(f) {
			continue
		}
		result = append(result, f)
	}
	return result
}

// isSeparator is true for anything that is not a word character (letter, digit, underscore).
func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
