// Package export writes a parsed plan as an XLSX workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/views"
)

// Sheet names.
const (
	SheetPlan     = "Plan"
	SheetMeals    = "Meals"
	SheetShopping = "Shopping"
)

const (
	headerFill = "1F4E79"
	labelFill  = "E2EFDA"
	maxSheet   = 31
)

var (
	blockHeaders = []string{"#", "Exercise", "Sets", "Reps", "Muscle group", "Volume", "Intensity", "Method", "Video"}
	mealHeaders  = []string{"Meal", "Food", "Portion", "Substitutions"}
)

// Options describes the workbook's overview sheet.
type Options struct {
	Title  string
	Client string
}

type styles struct {
	title  int
	header int
	label  int
	link   int
	wrap   int
}

// Workbook builds the workbook for plan: an overview sheet, one sheet per
// training block, a meals sheet and a shopping sheet when the plan has them.
// videos and methods may be nil.
func Workbook(plan *types.Plan, videos views.VideoLookup, methods *catalog.Methods, opts Options) (*excelize.File, error) {
	if plan == nil {
		plan = &types.Plan{}
	}
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		_ = f.Close()
		return nil, &Error{Sheet: SheetPlan, Message: "failed to rename default sheet", Cause: err}
	}

	blocks := views.DescribePlan(plan, videos, methods)
	names := blockSheetNames(blocks)

	steps := []func() error{
		func() error { return writeOverview(f, st, plan, blocks, names, opts) },
	}
	for i, b := range blocks {
		steps = append(steps, func() error { return writeBlock(f, st, names[i], b) })
	}
	if len(plan.Meals) > 0 {
		steps = append(steps, func() error { return writeMeals(f, st, plan.Meals) })
	}
	if len(plan.ShoppingList) > 0 {
		steps = append(steps, func() error { return writeShopping(f, st, plan.ShoppingList) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, plan *types.Plan, videos views.VideoLookup, methods *catalog.Methods, opts Options) error {
	f, err := Workbook(plan, videos, methods, opts)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return &Error{Message: "failed to save " + path, Cause: err}
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return st, &Error{Message: "failed to create title style", Cause: err}
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return st, &Error{Message: "failed to create header style", Cause: err}
	}
	if st.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{labelFill}, Pattern: 1},
	}); err != nil {
		return st, &Error{Message: "failed to create label style", Cause: err}
	}
	if st.link, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	}); err != nil {
		return st, &Error{Message: "failed to create link style", Cause: err}
	}
	if st.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		return st, &Error{Message: "failed to create wrap style", Cause: err}
	}
	return st, nil
}

// blockSheetNames gives each block a unique, valid sheet name.
func blockSheetNames(blocks []views.Block) []string {
	used := map[string]bool{SheetPlan: true, SheetMeals: true, SheetShopping: true}
	names := make([]string, len(blocks))
	for i, b := range blocks {
		base := "Block " + b.Block.Letter
		if b.Block.Letter == "" {
			base = fmt.Sprintf("Block %d", i+1)
		}
		base = sheetName(base)
		name := base
		for n := 2; used[name]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, maxSheet-len(suffix)) + suffix
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// sheetName strips characters Excel rejects in sheet names.
func sheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, s)
	return truncateRunes(strings.Trim(s, "' "), maxSheet)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeRow writes values starting at column 1 of row.
func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return &Error{Sheet: sheet, Message: "failed to write cell " + cell(i+1, row), Cause: err}
		}
	}
	return nil
}

func writeHeader(f *excelize.File, st styles, sheet string, row int, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, row, values...); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), st.header); err != nil {
		return &Error{Sheet: sheet, Message: "failed to style header", Cause: err}
	}
	return nil
}

func writeTitle(f *excelize.File, st styles, sheet, title string, span int) error {
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return &Error{Sheet: sheet, Message: "failed to write title", Cause: err}
	}
	if err := f.MergeCell(sheet, "A1", cell(span, 1)); err != nil {
		return &Error{Sheet: sheet, Message: "failed to merge title", Cause: err}
	}
	if err := f.SetCellStyle(sheet, "A1", cell(span, 1), st.title); err != nil {
		return &Error{Sheet: sheet, Message: "failed to style title", Cause: err}
	}
	return f.SetRowHeight(sheet, 1, 28)
}

func writeOverview(f *excelize.File, st styles, plan *types.Plan, blocks []views.Block, names []string, opts Options) error {
	sheet := SheetPlan
	title := opts.Title
	if title == "" {
		title = "Plan"
	}
	if err := writeTitle(f, st, sheet, title, 4); err != nil {
		return err
	}

	info := [][2]string{
		{"Client", opts.Client},
		{"Plan", plan.Title},
		{"Meals", fmt.Sprintf("%d", len(plan.Meals))},
		{"Training blocks", fmt.Sprintf("%d", len(plan.Blocks))},
	}
	row := 3
	for _, kv := range info {
		if err := writeRow(f, sheet, row, kv[0], kv[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.label); err != nil {
			return &Error{Sheet: sheet, Message: "failed to style label", Cause: err}
		}
		row++
	}

	if len(blocks) > 0 {
		row++
		if err := writeHeader(f, st, sheet, row, []string{"Sheet", "Block", "Month", "Exercises"}); err != nil {
			return err
		}
		row++
		for i, b := range blocks {
			month := ""
			if b.Block.Month != nil {
				month = fmt.Sprintf("%d", *b.Block.Month)
			}
			if err := writeRow(f, sheet, row, names[i], b.Heading, month, len(b.Rows)); err != nil {
				return err
			}
			link := fmt.Sprintf("'%s'!A1", names[i])
			if err := f.SetCellHyperLink(sheet, cell(1, row), link, "Location"); err != nil {
				return &Error{Sheet: sheet, Message: "failed to link block sheet", Cause: err}
			}
			if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.link); err != nil {
				return &Error{Sheet: sheet, Message: "failed to style link", Cause: err}
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return &Error{Sheet: sheet, Message: "failed to size columns", Cause: err}
	}
	return f.SetColWidth(sheet, "B", "D", 32)
}

func writeBlock(f *excelize.File, st styles, sheet string, b views.Block) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return &Error{Sheet: sheet, Message: "failed to create sheet", Cause: err}
	}
	if err := writeTitle(f, st, sheet, b.Heading, len(blockHeaders)); err != nil {
		return err
	}
	if err := writeHeader(f, st, sheet, 3, blockHeaders); err != nil {
		return err
	}

	row := 4
	for _, r := range b.Rows {
		method := ""
		if r.Method != nil {
			method = r.Method.Name
		}
		ex := r.Exercise
		if err := writeRow(f, sheet, row, ex.Number, ex.Name, ex.Sets, ex.Reps, ex.MuscleGroup, ex.Volume, ex.Intensity, method, r.Video.URL); err != nil {
			return err
		}
		if r.Video.HasVideo() {
			videoCell := cell(len(blockHeaders), row)
			if err := f.SetCellHyperLink(sheet, videoCell, r.Video.URL, "External"); err != nil {
				return &Error{Sheet: sheet, Message: "failed to link video", Cause: err}
			}
			if err := f.SetCellStyle(sheet, videoCell, videoCell, st.link); err != nil {
				return &Error{Sheet: sheet, Message: "failed to style link", Cause: err}
			}
		}
		row++
	}

	notes := make([][2]string, 0, len(b.Methods)+1)
	for _, m := range b.Methods {
		notes = append(notes, [2]string{m.Name, m.Description})
	}
	if b.Block.Observations != "" {
		notes = append(notes, [2]string{"Observations", b.Block.Observations})
	}
	if len(notes) > 0 {
		row++
	}
	for _, n := range notes {
		if err := writeRow(f, sheet, row, n[0], n[1]); err != nil {
			return err
		}
		if err := f.MergeCell(sheet, cell(2, row), cell(len(blockHeaders), row)); err != nil {
			return &Error{Sheet: sheet, Message: "failed to merge note", Cause: err}
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.label); err != nil {
			return &Error{Sheet: sheet, Message: "failed to style note", Cause: err}
		}
		if err := f.SetCellStyle(sheet, cell(2, row), cell(len(blockHeaders), row), st.wrap); err != nil {
			return &Error{Sheet: sheet, Message: "failed to style note", Cause: err}
		}
		row++
	}

	widths := []float64{5, 36, 8, 12, 16, 12, 12, 16, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return &Error{Sheet: sheet, Message: "failed to size columns", Cause: err}
		}
	}
	return nil
}

func writeMeals(f *excelize.File, st styles, meals []types.Meal) error {
	sheet := SheetMeals
	if _, err := f.NewSheet(sheet); err != nil {
		return &Error{Sheet: sheet, Message: "failed to create sheet", Cause: err}
	}
	if err := writeHeader(f, st, sheet, 1, mealHeaders); err != nil {
		return err
	}

	row := 2
	for _, meal := range meals {
		if len(meal.FoodItems) == 0 {
			if err := writeRow(f, sheet, row, meal.Name); err != nil {
				return err
			}
			row++
		}
		for _, item := range meal.FoodItems {
			if err := writeRow(f, sheet, row, meal.Name, item.Name, item.Portion, strings.Join(item.Substitutions, "; ")); err != nil {
				return err
			}
			row++
		}
		if meal.Observations != "" {
			if err := writeRow(f, sheet, row, meal.Name, "Observations", "", meal.Observations); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell(2, row), cell(2, row), st.label); err != nil {
				return &Error{Sheet: sheet, Message: "failed to style observations", Cause: err}
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return &Error{Sheet: sheet, Message: "failed to size columns", Cause: err}
	}
	if err := f.SetColWidth(sheet, "B", "C", 24); err != nil {
		return &Error{Sheet: sheet, Message: "failed to size columns", Cause: err}
	}
	return f.SetColWidth(sheet, "D", "D", 48)
}

func writeShopping(f *excelize.File, st styles, items []string) error {
	sheet := SheetShopping
	if _, err := f.NewSheet(sheet); err != nil {
		return &Error{Sheet: sheet, Message: "failed to create sheet", Cause: err}
	}
	if err := writeHeader(f, st, sheet, 1, []string{"Item"}); err != nil {
		return err
	}
	for i, item := range items {
		if err := writeRow(f, sheet, i+2, item); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 36)
}
