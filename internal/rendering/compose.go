// Package rendering lays out parsed plans and body metrics as a paginated PDF report.
package rendering

import (
	"fmt"

	"github.com/jonathan/coach-report/internal/bodycomp"
	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/charts"
	"github.com/jonathan/coach-report/internal/layout"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/views"
)

var (
	foodColumns = []Column{
		{Title: "Food", Width: 0.58},
		{Title: "Portion", Width: 0.42},
	}
	exerciseColumns = []Column{
		{Title: "#", Width: 0.06, Align: "C"},
		{Title: "Exercise", Width: 0.46},
		{Title: "Sets", Width: 0.09, Align: "C"},
		{Title: "Reps", Width: 0.15, Align: "C"},
		{Title: "Video", Width: 0.24},
	}
)

const (
	watchVideo = "Watch video"
	noVideo    = "No video available"
)

// place is Place with the error wrapped for the composer that issued it.
func (d *Document) place(section string, blocks ...layout.Block) error {
	for _, b := range blocks {
		if err := d.pager.Place(b); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to place %s in %s", b.Kind, section), Cause: err}
		}
	}
	return nil
}

// ComposeNutrition lays out the plan title, every meal with its food table,
// substitution panels and observations, then the shopping list.
func (d *Document) ComposeNutrition(plan *types.Plan) error {
	if plan.Title != "" {
		if err := d.place("nutrition", d.TitleBar(plan.Title, 1)); err != nil {
			return err
		}
		d.pager.Space(gapSection)
	}

	for _, meal := range plan.Meals {
		if err := d.composeMeal(meal); err != nil {
			return err
		}
		d.pager.Space(gapSection)
	}

	if len(plan.ShoppingList) > 0 {
		title := d.TitleBar("Shopping list", 1)
		d.pager.KeepTogether(title.Height + lineHeight + 2*rowPad)
		if err := d.place("shopping list", title); err != nil {
			return err
		}
		for i, item := range plan.ShoppingList {
			row := d.TableRow([]Column{{Width: 1}}, []Cell{{Text: "- " + item}}, i%2 == 1)
			if err := d.place("shopping list", row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) composeMeal(meal types.Meal) error {
	title := d.TitleBar(meal.Name, 2)

	if len(meal.FoodItems) == 0 {
		empty := d.TextLines("No items listed.", styleItalic, d.opts.Theme.Muted)
		d.pager.KeepTogether(title.Height + lineHeight)
		if err := d.place("meal", title); err != nil {
			return err
		}
		if err := d.place("meal", empty...); err != nil {
			return err
		}
	} else {
		header := d.TableHeader(foodColumns)
		rows := make([]layout.Block, len(meal.FoodItems))
		for i, f := range meal.FoodItems {
			rows[i] = d.TableRow(foodColumns, []Cell{{Text: f.Name}, {Text: f.Portion}}, i%2 == 1)
		}

		d.pager.KeepTogether(title.Height + header.Height + rows[0].Height)
		if err := d.place("meal", title); err != nil {
			return err
		}
		if err := d.pager.BeginTable(header); err != nil {
			return &RenderError{Message: "failed to place food table header", Cause: err}
		}
		err := d.place("meal", rows...)
		d.pager.EndTable()
		if err != nil {
			return err
		}
	}

	for _, f := range meal.FoodItems {
		if len(f.Substitutions) == 0 {
			continue
		}
		d.pager.Space(gapSmall)
		if err := d.place("meal", d.SubstitutionPanel(f.Name, f.Substitutions)...); err != nil {
			return err
		}
	}

	if meal.Observations != "" {
		d.pager.Space(gapSmall)
		if err := d.place("meal", d.Callout("Observations", meal.Observations)...); err != nil {
			return err
		}
	}
	return nil
}

// ComposeWorkout lays out each training block as an exercise table with video
// links, followed by a callout for every training method the block uses.
func (d *Document) ComposeWorkout(plan *types.Plan, videos views.VideoLookup, methods *catalog.Methods) error {
	if plan.Title != "" {
		if err := d.place("workout", d.TitleBar(plan.Title, 1)); err != nil {
			return err
		}
		d.pager.Space(gapSection)
	}

	for _, block := range views.DescribePlan(plan, videos, methods) {
		if err := d.composeBlock(block); err != nil {
			return err
		}
		d.pager.Space(gapSection)
	}
	return nil
}

func (d *Document) composeBlock(block views.Block) error {
	title := d.TitleBar(block.Heading, 1)
	header := d.TableHeader(exerciseColumns)

	rows := make([]layout.Block, len(block.Rows))
	for i, r := range block.Rows {
		name := r.Exercise.Name
		if r.Detail != "" {
			name += "\n" + r.Detail
		}
		video := Cell{Text: noVideo}
		if r.Video.HasVideo() {
			video = Cell{Text: watchVideo, Link: r.Video.URL}
		}
		rows[i] = d.TableRow(exerciseColumns, []Cell{
			{Text: r.Exercise.Number},
			{Text: name},
			{Text: r.Exercise.Sets},
			{Text: r.Exercise.Reps},
			video,
		}, i%2 == 1)
	}

	first := 0.0
	if len(rows) > 0 {
		first = header.Height + rows[0].Height
	}
	d.pager.KeepTogether(title.Height + first)
	if err := d.place("training block", title); err != nil {
		return err
	}

	if len(rows) == 0 {
		if err := d.place("training block", d.TextLines("No exercises listed.", styleItalic, d.opts.Theme.Muted)...); err != nil {
			return err
		}
	} else {
		if err := d.pager.BeginTable(header); err != nil {
			return &RenderError{Message: "failed to place exercise table header", Cause: err}
		}
		err := d.place("training block", rows...)
		d.pager.EndTable()
		if err != nil {
			return err
		}
	}

	for _, m := range block.Methods {
		d.pager.Space(gapSmall)
		if err := d.place("training block", d.Callout(m.Name, m.Description)...); err != nil {
			return err
		}
	}

	if block.Block.Observations != "" {
		d.pager.Space(gapSmall)
		if err := d.place("training block", d.Callout("Observations", block.Block.Observations)...); err != nil {
			return err
		}
	}
	return nil
}

// ComposeBody lays out the body-composition section: donut and scatter,
// threshold bars for each available ratio, and the measurement silhouette.
func (d *Document) ComposeBody(profile *types.Profile, m bodycomp.Metrics) error {
	title := d.TitleBar("Body composition", 1)
	if err := d.place("body", title); err != nil {
		return err
	}
	d.pager.Space(gapSmall)

	if m.HasComposition() {
		donut, err := charts.Donut(charts.DonutSpec{LeanPct: m.LeanPct, FatPct: m.FatPct, WeightKg: profile.WeightKg})
		if err != nil {
			return &RenderError{Message: "failed to draw composition donut", Cause: err}
		}
		scatter, err := charts.Scatter(charts.ScatterSpec{LeanIndex: m.FFMI, FatIndex: m.FMI, Zones: bodycomp.Zones(profile.Sex)})
		if err != nil {
			return &RenderError{Message: "failed to draw index scatter", Cause: err}
		}
		if err := d.place("body", d.ChartRow(donut, scatter)); err != nil {
			return err
		}
		summary := fmt.Sprintf("Lean mass %.1f kg (%.1f%%), fat mass %.1f kg (%.1f%%). Lean mass index %.1f, fat mass index %.1f kg/m².",
			m.LeanKg, m.LeanPct, m.FatKg, m.FatPct, m.FFMI, m.FMI)
		if err := d.place("body", d.TextLines(summary, styleRegular, d.opts.Theme.Ink)...); err != nil {
			return err
		}
		d.pager.Space(gapSection)
	}

	bars := []charts.BarSpec{}
	if m.WaistCm > 0 {
		bars = append(bars, charts.BarSpec{Title: "Waist circumference", Set: bodycomp.Thresholds(bodycomp.LabelWaist, profile.Sex), Value: m.WaistCm})
	}
	if m.WaistToHip > 0 {
		bars = append(bars, charts.BarSpec{Title: "Waist-to-hip ratio", Set: bodycomp.Thresholds(bodycomp.LabelWaistToHip, profile.Sex), Value: m.WaistToHip})
	}
	if m.WaistToHeight > 0 {
		bars = append(bars, charts.BarSpec{Title: "Waist-to-height ratio", Set: bodycomp.Thresholds(bodycomp.LabelWaistToHeight, profile.Sex), Value: m.WaistToHeight})
	}
	for _, spec := range bars {
		panel, err := charts.ThresholdBar(spec)
		if err != nil {
			return &RenderError{Message: "failed to draw threshold bar", Cause: err}
		}
		if err := d.place("body", d.ChartRow(panel)); err != nil {
			return err
		}
		d.pager.Space(gapSmall)
	}

	measured := profile.Measurements
	measured.HipCm = m.HipCm
	spec := charts.SpecFromMeasurements(measured, charts.UnitCM)
	if len(charts.SilhouetteCallouts(spec)) > 0 {
		panel, err := charts.Silhouette(spec)
		if err != nil {
			return &RenderError{Message: "failed to draw silhouette", Cause: err}
		}
		d.pager.Space(gapSmall)
		if err := d.place("body", d.ChartRow(panel)); err != nil {
			return err
		}
	}

	for _, c := range m.Corrections {
		d.pager.Space(gapSmall)
		if err := d.place("body", d.Callout("Measurement note", c.String())...); err != nil {
			return err
		}
	}
	return nil
}

// ComposeParagraphs renders fallback paragraph flow.
func (d *Document) ComposeParagraphs(paragraphs []types.Paragraph) error {
	for i, p := range paragraphs {
		if p.Heading {
			if i > 0 {
				d.pager.Space(gapSmall)
			}
			h := d.Heading(p.Text)
			d.pager.KeepTogether(h.Height + lineHeight)
			if err := d.place("paragraphs", h); err != nil {
				return err
			}
			continue
		}
		if err := d.place("paragraphs", d.TextLines(p.Text, styleRegular, d.opts.Theme.Ink)...); err != nil {
			return err
		}
	}
	return nil
}
