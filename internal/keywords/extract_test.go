package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"filler dropped", "JavaScript proficiency", []string{"javascript"}},
		{"short tokens dropped", "Go or C is OK", []string{}},
		{"punctuation splits", "CI/CD, Docker & Kubernetes!", []string{"docker", "kubernetes"}},
		{"duplicates retained", "react React REACT", []string{"react", "react", "react"}},
		{"order preserved", "Python, then Django and Flask", []string{"python", "django", "flask"}},
		{"underscore is a word char", "snake_case naming", []string{"snake_case", "naming"}},
		{"digits kept", "Java 17 and ES2015", []string{"java", "es2015"}},
		{"unicode letters", "Développement backend", []string{"développement", "backend"}},
		{"empty", "", []string{}},
		{"only stop words", "the experience and skills", []string{}},
		{"three letters kept", "AWS SQL API", []string{"aws", "sql", "api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input))
		})
	}
}

func TestExtract_Pure(t *testing.T) {
	input := "Strong experience with PostgreSQL and Redis"
	first := Extract(input)
	second := Extract(input)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"postgresql", "redis"}, first)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("experience"))
	assert.True(t, IsStopWord("the"))
	assert.False(t, IsStopWord("kubernetes"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"GoLang Developer", "golang developer"},
		{"ÄRGER", "ärger"},
		{"Café", "café"},
		{"RÉSUMÉ", "résumé"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}

	// case only: accented and plain spellings stay distinct
	assert.NotEqual(t, Normalize("Café"), Normalize("cafe"))
}
