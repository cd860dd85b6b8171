// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

import (
	"strconv"
	"strings"

	"github.com/jonathan/coach-report/internal/normalize"
	"github.com/jonathan/coach-report/internal/types"
)

// Default set/rep values applied when an exercise line carries none.
const (
	DefaultSets = "3x"
	DefaultReps = "12/10/8"
)

// Options controls a parse.
type Options struct {
	Variant Variant
	// RepairDuplicateTitle collapses a calorie title written twice in a row.
	RepairDuplicateTitle bool
	DefaultSets          string
	DefaultReps          string
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		Variant:              VariantAuto,
		RepairDuplicateTitle: true,
		DefaultSets:          DefaultSets,
		DefaultReps:          DefaultReps,
	}
}

// ParsePlan converts plan text into a Plan. It never fails: lines it cannot place
// are ignored, and a text with no recognizable section header is returned as
// fallback paragraphs.
func ParsePlan(text string, opts Options) *types.Plan {
	if opts.DefaultSets == "" {
		opts.DefaultSets = DefaultSets
	}
	if opts.DefaultReps == "" {
		opts.DefaultReps = DefaultReps
	}

	p := &parser{
		opts:  opts,
		lines: splitLines(text),
		state: StateSeekingHeader,
		plan:  &types.Plan{},
	}
	p.run()

	if p.plan.SectionCount() == 0 {
		return &types.Plan{Paragraphs: paragraphs(p.lines)}
	}
	return p.plan
}

type parser struct {
	opts  Options
	lines []string
	pos   int

	state    State
	shopping bool
	plan     *types.Plan

	open  sectionKind
	meal  types.Meal
	block types.TrainingBlock

	subsFor string
	subs    []string
}

func (p *parser) run() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++

		info := classify(line, p.opts.Variant, p.open)
		next := Transition(p.state, info.kind)

		if p.state == StateInSubstitutions && (next != StateInSubstitutions || info.kind == KindSubstitutionHeader) {
			p.flushSubstitutions()
		}

		p.state = next
		p.apply(info)
	}

	if p.state == StateInSubstitutions {
		p.flushSubstitutions()
	}
	p.flushSection()
}

func (p *parser) apply(info lineInfo) {
	switch info.kind {
	case KindSummary:
		if p.plan.Title == "" {
			title := strings.TrimSpace(info.raw)
			if p.opts.RepairDuplicateTitle {
				title = repairDuplicateTitle(title)
			}
			p.plan.Title = title
		}

	case KindSectionHeader:
		p.flushSection()
		p.shopping = false
		p.openSection(info)

	case KindShoppingHeader:
		p.flushSection()
		p.shopping = !p.shopping

	case KindObservations:
		if p.open != sectionNone {
			p.appendObservation(info.text)
		}

	case KindSubstitutionHeader:
		if p.open == sectionMeal {
			p.subsFor = info.text
			p.subs = nil
		}

	case KindExercise:
		next := p.peek()
		ex, consumed := parseExercise(info.number, info.rest, next, p.opts)
		if consumed {
			p.skipToNext()
		}
		p.block.Exercises = append(p.block.Exercises, ex)

	case KindBullet, KindText:
		p.applyText(info)
	}
}

func (p *parser) applyText(info lineInfo) {
	switch p.state {
	case StateInObservations:
		p.appendObservation(info.raw)
		return
	case StateInSubstitutions:
		// only bullets get here; a plain line has already closed the list
		if info.text != "" {
			p.subs = append(p.subs, info.text)
		}
		return
	}

	if p.open == sectionNone && p.shopping {
		item := info.raw
		if info.kind == KindBullet {
			item = info.text
		}
		if item != "" {
			p.plan.ShoppingList = append(p.plan.ShoppingList, item)
		}
		return
	}

	if p.open == sectionMeal && p.state == StateInSection && info.kind == KindText {
		p.addFood(info.raw)
	}
	// everything else is a caption or stray line and is ignored
}

func (p *parser) openSection(info lineInfo) {
	switch info.header {
	case sectionMeal:
		p.open = sectionMeal
		p.meal = types.Meal{Name: info.title, FoodItems: []types.FoodItem{}}
	case sectionTraining:
		p.open = sectionTraining
		p.block = types.TrainingBlock{
			Letter:      info.letter,
			Description: info.description,
			Title:       info.title,
			Exercises:   []types.Exercise{},
		}
		if m := monthPattern.FindStringSubmatch(info.description); m != nil {
			if month, err := strconv.Atoi(m[1]); err == nil {
				p.block.Month = &month
			}
		}
	}
}

// flushSection emits the open section, even when it has no items.
func (p *parser) flushSection() {
	switch p.open {
	case sectionMeal:
		p.plan.Meals = append(p.plan.Meals, p.meal)
	case sectionTraining:
		p.plan.Blocks = append(p.plan.Blocks, p.block)
	}
	p.open = sectionNone
	p.meal = types.Meal{}
	p.block = types.TrainingBlock{}
}

func (p *parser) appendObservation(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	target := &p.meal.Observations
	if p.open == sectionTraining {
		target = &p.block.Observations
	}
	if *target == "" {
		*target = text
	} else {
		*target += " " + text
	}
}

// addFood records a food line. An inline "Name - 50g" keeps its portion;
// otherwise the next line is taken as the portion unless it starts a new rule.
func (p *parser) addFood(line string) {
	name, portion, inline := splitInlinePortion(line)
	if !inline {
		if p.pos < len(p.lines) {
			next := classify(p.lines[p.pos], p.opts.Variant, p.open)
			if !blocksCapture(next.kind) {
				portion = stripBullet(p.lines[p.pos])
				p.pos++
			}
		}
	}
	p.meal.FoodItems = append(p.meal.FoodItems, types.FoodItem{
		Name:          name,
		Portion:       portion,
		Substitutions: []string{},
	})
}

// flushSubstitutions attaches accumulated options to the food they were written for.
func (p *parser) flushSubstitutions() {
	defer func() {
		p.subsFor = ""
		p.subs = nil
	}()
	if len(p.subs) == 0 || p.open != sectionMeal {
		return
	}

	if idx := matchFood(p.meal.FoodItems, p.subsFor); idx >= 0 {
		item := &p.meal.FoodItems[idx]
		item.Substitutions = append(item.Substitutions, p.subs...)
		return
	}

	// no food by that name: attach to the last open food item
	if n := len(p.meal.FoodItems); n > 0 {
		item := &p.meal.FoodItems[n-1]
		item.Substitutions = append(item.Substitutions, p.subs...)
		return
	}

	p.meal.FoodItems = append(p.meal.FoodItems, types.FoodItem{
		Name:          p.subsFor,
		Substitutions: append([]string{}, p.subs...),
	})
}

// matchFood finds the food a substitution header names, latest first.
func matchFood(items []types.FoodItem, target string) int {
	want := normalize.EssentialName(target)
	if want == "" {
		return -1
	}
	for i := len(items) - 1; i >= 0; i-- {
		if normalize.EssentialName(items[i].Name) == want {
			return i
		}
	}
	for i := len(items) - 1; i >= 0; i-- {
		have := normalize.EssentialName(items[i].Name)
		if have != "" && (strings.Contains(have, want) || strings.Contains(want, have)) {
			return i
		}
	}
	return -1
}

func (p *parser) peek() string {
	if p.pos < len(p.lines) {
		return p.lines[p.pos]
	}
	return ""
}

func (p *parser) skipToNext() {
	if p.pos < len(p.lines) {
		p.pos++
	}
}

// splitInlinePortion splits "Oatmeal - 50g" or "Arroz: 4 colheres" when the tail starts with a digit.
func splitInlinePortion(line string) (name, portion string, ok bool) {
	line = strings.TrimSpace(line)
	for _, sep := range []string{" - ", " – ", " — ", ": "} {
		if i := strings.Index(line, sep); i > 0 {
			tail := strings.TrimSpace(line[i+len(sep):])
			if tail != "" && tail[0] >= '0' && tail[0] <= '9' {
				return strings.TrimSpace(line[:i]), tail, true
			}
		}
	}
	return line, "", false
}

// splitLines returns the trimmed, non-blank lines of text.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
