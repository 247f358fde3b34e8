// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/fit-scorer/internal/requirements"
	"github.com/jonathan/fit-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer renders engine results as boxed, human-readable text
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(clip(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes. fmt's width counts bytes.
func pad(s string, n int) string {
	if width := len([]rune(s)); width < n {
		return s + strings.Repeat(" ", n-width)
	}
	return s
}

// PrintMatchResult outputs the fit score, breakdown, insights and per-requirement analysis.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", result.CandidateID))
	sb.WriteString(fmt.Sprintf("Job:        %s\n", result.JobVariantID))
	sb.WriteString(fmt.Sprintf("Fit score:  %d/100\n", result.FitScore))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Must have:    %3d\n", result.Breakdown.MustHaveScore))
	sb.WriteString(fmt.Sprintf("Should have:  %3d\n", result.Breakdown.ShouldHaveScore))
	sb.WriteString(fmt.Sprintf("Nice to have: %3d\n", result.Breakdown.NiceToHaveScore))

	writeList(&sb, "Strengths", "✓", result.Strengths)
	writeList(&sb, "Gaps", "✗", result.Gaps)
	writeList(&sb, "Recommendations", "→", result.Recommendations)

	p.printBox("FIT ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))

	if len(result.DetailedAnalysis) == 0 {
		return
	}

	sb.Reset()
	for i, m := range result.DetailedAnalysis {
		mark := "✗"
		if m.Matched {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", mark, m.Requirement.Category, m.Requirement.Description))
		sb.WriteString(fmt.Sprintf("    Confidence: %.2f  Weight: %d\n", m.Confidence, m.Requirement.Weight))
		sb.WriteString(fmt.Sprintf("    %s\n", m.Explanation))
		if i < len(result.DetailedAnalysis)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("REQUIREMENT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  %s %s\n", bullet, item))
	}
}

// PrintShortlist outputs the ranked candidates and how the shortlist was built.
func (p *Printer) PrintShortlist(result *types.ShortlistResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job: %s\n", result.JobID))
	sb.WriteString(fmt.Sprintf("Pre-filtered: %d  Scored: %d  Skipped: %d\n",
		result.Prefiltered, result.Scored, result.Skipped))

	if len(result.Matches) == 0 {
		sb.WriteString("\nNo candidates met the minimum fit score")
		p.printBox("CANDIDATE SHORTLIST", sb.String())
		return
	}

	sb.WriteString("\n")
	for i, m := range result.Matches {
		sb.WriteString(fmt.Sprintf("#%-3d %-40s %3d\n", i+1, clip(m.CandidateID, 40), m.FitScore))
		if len(m.Strengths) > 0 {
			sb.WriteString(fmt.Sprintf("     + %s\n", m.Strengths[0]))
		}
		if len(m.Gaps) > 0 {
			sb.WriteString(fmt.Sprintf("     - %s\n", m.Gaps[0]))
		}
	}

	p.printBox("CANDIDATE SHORTLIST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRequirements outputs the aggregated requirement set of a job by category.
func (p *Printer) PrintRequirements(agg *requirements.Aggregated) {
	if agg == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:    %s\n", agg.JobID))
	if agg.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:  %s\n", agg.Title))
	}
	if agg.Excluded > 0 {
		sb.WriteString(fmt.Sprintf("Excluded (invalid): %d\n", agg.Excluded))
	}

	byCategory := requirements.ByCategory(agg.Requirements)
	for _, cat := range types.Categories {
		reqs := byCategory[cat]
		if len(reqs) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", cat, len(reqs)))
		count := min(len(reqs), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (w%d, %s)\n", reqs[i].Description, reqs[i].Weight, reqs[i].Level))
		}
		if len(reqs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(reqs)-maxItemsToShow))
		}
	}

	if len(agg.Requirements) == 0 {
		sb.WriteString("\nNo requirements defined")
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}
