// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/coach-report/internal/bodycomp"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Match pairs a looked-up name with its result.
type Match struct {
	Name   string
	Result matching.Result
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

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// PrintPlan outputs a summary of the parsed plan.
func (p *Printer) PrintPlan(plan *types.Plan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	if plan.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n\n", plan.Title))
	}

	if plan.IsFallback() {
		sb.WriteString(fmt.Sprintf("No sections recognized; %d paragraph(s)\n", len(plan.Paragraphs)))
	}

	if len(plan.Meals) > 0 {
		sb.WriteString(fmt.Sprintf("Meals (%d):\n", len(plan.Meals)))
		count := min(len(plan.Meals), maxItemsToShow)
		for i := 0; i < count; i++ {
			meal := plan.Meals[i]
			sb.WriteString(fmt.Sprintf("  • %s: %d item(s)", meal.Name, len(meal.FoodItems)))
			if subs := substitutions(meal); subs > 0 {
				sb.WriteString(fmt.Sprintf(", %d substitution(s)", subs))
			}
			sb.WriteString("\n")
		}
		if len(plan.Meals) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Meals)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(plan.Blocks) > 0 {
		sb.WriteString(fmt.Sprintf("Training blocks (%d):\n", len(plan.Blocks)))
		count := min(len(plan.Blocks), maxItemsToShow)
		for i := 0; i < count; i++ {
			b := plan.Blocks[i]
			sb.WriteString(fmt.Sprintf("  • %s: %d exercise(s)\n", b.Title, len(b.Exercises)))
		}
		if len(plan.Blocks) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Blocks)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(plan.ShoppingList) > 0 {
		sb.WriteString(fmt.Sprintf("Shopping list: %d item(s)\n", len(plan.ShoppingList)))
	}

	p.printBox("PARSED PLAN", strings.TrimSuffix(strings.TrimSuffix(sb.String(), "\n"), "\n"))
}

func substitutions(m types.Meal) int {
	n := 0
	for _, item := range m.FoodItems {
		n += len(item.Substitutions)
	}
	return n
}

// PrintMatches outputs video lookups with the rule that matched each one.
func (p *Printer) PrintMatches(matches []Match) {
	if len(matches) == 0 {
		return
	}

	found := 0
	for _, m := range matches {
		if m.Result.HasVideo() {
			found++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d of %d exercise(s) have a video\n\n", found, len(matches)))
	for i, m := range matches {
		mark := "✗"
		if m.Result.HasVideo() {
			mark = "✓"
		} else if m.Result.Known {
			mark = "·"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, m.Name))
		if m.Result.Known {
			sb.WriteString(fmt.Sprintf("  → %s [%s]", m.Result.Canonical, m.Result.Tier))
		} else {
			sb.WriteString("  → no catalog entry")
		}
		if i < len(matches)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXERCISE VIDEOS", sb.String())
}

// PrintMetrics outputs derived body-composition values and any corrections.
func (p *Printer) PrintMetrics(m bodycomp.Metrics) {
	var sb strings.Builder
	if m.HasComposition() {
		sb.WriteString(fmt.Sprintf("Lean:     %.1f kg (%.1f%%)\n", m.LeanKg, m.LeanPct))
		sb.WriteString(fmt.Sprintf("Fat:      %.1f kg (%.1f%%)\n", m.FatKg, m.FatPct))
		sb.WriteString(fmt.Sprintf("FFMI:     %.1f   FMI: %.1f\n", m.FFMI, m.FMI))
	}
	if m.WaistToHip > 0 {
		sb.WriteString(fmt.Sprintf("Waist/hip:    %.2f\n", m.WaistToHip))
	}
	if m.WaistToHeight > 0 {
		sb.WriteString(fmt.Sprintf("Waist/height: %.2f\n", m.WaistToHeight))
	}
	for _, c := range m.Corrections {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", c))
	}
	if sb.Len() == 0 {
		return
	}
	p.printBox("BODY COMPOSITION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifact outputs the finished report summary.
func (p *Printer) PrintArtifact(a *types.Artifact, path string) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", a.FileName))
	if path != "" && path != a.FileName {
		sb.WriteString(fmt.Sprintf("Path:     %s\n", path))
	}
	if a.Client != "" {
		sb.WriteString(fmt.Sprintf("Client:   %s\n", a.Client))
	}
	sb.WriteString(fmt.Sprintf("Kind:     %s\n", a.Kind))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", a.Pages))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes\n", len(a.Content)))
	sb.WriteString(fmt.Sprintf("Session:  %s", a.ID))
	for _, w := range a.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠ %s", w))
	}

	p.printBox("REPORT", sb.String())
}

// PrintViolations outputs any layout violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ NO VIOLATIONS FOUND", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		sb.WriteString(fmt.Sprintf("⚠ %s (%s)", v.Type, v.Severity))
		if v.Page != nil {
			sb.WriteString(fmt.Sprintf(" page %d", *v.Page))
		}
		sb.WriteString(fmt.Sprintf("\n  %s\n", clip(v.Details, 45)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LAYOUT VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
