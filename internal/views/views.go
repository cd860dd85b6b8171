// Package views resolves parsed plan items into display rows shared by the
// printed report and the on-screen preview, so both show the same videos and
// method notes for the same input.
package views

import (
	"strings"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/types"
)

// VideoLookup resolves an annotated exercise name. Callers bind it to a
// matcher session and a surface.
type VideoLookup func(name string) matching.Result

// ExerciseRow is one exercise ready for display.
type ExerciseRow struct {
	Exercise types.Exercise
	// Detail joins the optional muscle group, volume and intensity.
	Detail string
	Video  matching.Result
	Method *catalog.Method
}

// Block is a training block with its resolved rows and the methods its
// exercises use, each listed once in first-use order.
type Block struct {
	Block   types.TrainingBlock
	Heading string
	Rows    []ExerciseRow
	Methods []catalog.Method
}

// AnnotatedName rebuilds the catalog-style name "Name 3x10" for lookup.
func AnnotatedName(ex types.Exercise) string {
	name := strings.TrimSpace(ex.Name)
	if ex.Sets == "" || ex.Reps == "" {
		return name
	}
	return name + " " + ex.Sets + ex.Reps
}

// Detail joins the optional exercise fields with " · ".
func Detail(ex types.Exercise) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{ex.MuscleGroup, ex.Volume, ex.Intensity} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// BlockHeading is "TRAINING BLOCK A - Month 1", or the title alone.
func BlockHeading(b types.TrainingBlock) string {
	title := b.Title
	if title == "" {
		title = "Block " + b.Letter
	}
	if b.Description == "" {
		return title
	}
	return title + " - " + b.Description
}

// DescribeBlock resolves every exercise of b. videos and methods may be nil.
func DescribeBlock(b types.TrainingBlock, videos VideoLookup, methods *catalog.Methods) Block {
	out := Block{Block: b, Heading: BlockHeading(b), Rows: make([]ExerciseRow, 0, len(b.Exercises))}
	seen := make(map[string]bool)

	for _, ex := range b.Exercises {
		row := ExerciseRow{Exercise: ex, Detail: Detail(ex)}
		if videos != nil {
			row.Video = videos(AnnotatedName(ex))
		}
		if methods != nil {
			if m, ok := methods.Resolve(ex.Name); ok {
				m := m
				row.Method = &m
				if !seen[m.Key] {
					seen[m.Key] = true
					out.Methods = append(out.Methods, m)
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// DescribePlan resolves every training block of p in order.
func DescribePlan(p *types.Plan, videos VideoLookup, methods *catalog.Methods) []Block {
	if p == nil {
		return nil
	}
	out := make([]Block, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		out = append(out, DescribeBlock(b, videos, methods))
	}
	return out
}

// SessionLookup binds a matcher session to one surface.
func SessionLookup(s *matching.Session, surface matching.Surface) VideoLookup {
	return func(name string) matching.Result {
		return s.Resolve(surface, name)
	}
}
