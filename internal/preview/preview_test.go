package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/views"
)

const planText = `Plano 1800 kcal
Breakfast
Oatmeal
50g
Options for Oatmeal:
- Granola 40g
- Tapioca 30g
Observations: take with skim milk
Shopping list
Oats
Milk
TRAINING BLOCK A: Month 1
1 - Bench Press 3x10
2 - Squat (rest-pause) 4x12/10/8/6
3 - Unknown Movement XYZ 3x15`

func testSession(t *testing.T) (*matching.Session, *catalog.Methods) {
	t.Helper()
	idx := catalog.NewIndex(map[string]string{
		"Bench Press 3x10":  "https://videos.example.com/bench",
		"Squat 4x12/10/8/6": "https://videos.example.com/squat",
	})
	methods, err := catalog.DefaultMethods()
	require.NoError(t, err)
	return matching.NewMatcher(idx).NewSession(nil), methods
}

func testPage(t *testing.T) Page {
	t.Helper()
	session, methods := testSession(t)
	plan := parsing.ParsePlan(planText, parsing.DefaultOptions())
	return Build(plan, session, methods, Options{Title: "Coaching plan", Client: "Ana Souza"})
}

func renderDOM(t *testing.T, page Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, page))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestBuild(t *testing.T) {
	page := testPage(t)

	assert.Equal(t, DefaultBrand, page.Brand)
	assert.Equal(t, "Plano 1800 kcal", page.PlanTitle)
	require.Len(t, page.Meals, 1)
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, []string{"Oats", "Milk"}, page.Shopping)
	assert.False(t, page.Empty())

	assert.True(t, Build(nil, nil, nil, Options{}).Empty())
}

func TestBuild_MatchesPrintSurface(t *testing.T) {
	session, methods := testSession(t)
	plan := parsing.ParsePlan(planText, parsing.DefaultOptions())

	page := Build(plan, session, methods, Options{})
	printed := views.DescribePlan(plan, views.SessionLookup(session, matching.SurfacePrint), methods)

	require.Len(t, page.Blocks, len(printed))
	for i := range printed {
		require.Len(t, page.Blocks[i].Rows, len(printed[i].Rows))
		for j := range printed[i].Rows {
			assert.Equal(t, printed[i].Rows[j].Video, page.Blocks[i].Rows[j].Video)
			assert.Equal(t, printed[i].Rows[j].Method, page.Blocks[i].Rows[j].Method)
		}
		assert.Equal(t, printed[i].Methods, page.Blocks[i].Methods)
	}
}

func TestRenderHTML(t *testing.T) {
	doc := renderDOM(t, testPage(t))

	assert.Equal(t, "Coaching plan", doc.Find("header .title").Text())
	assert.Equal(t, "Ana Souza", doc.Find("header .client").Text())
	assert.Equal(t, "Plano 1800 kcal", doc.Find("h1.plan-title").Text())

	meal := doc.Find("section.meal")
	require.Equal(t, 1, meal.Length())
	assert.Equal(t, "Breakfast", meal.Find("h2").Text())
	assert.Equal(t, 1, meal.Find("tr.food").Length())
	assert.Equal(t, "50g", meal.Find("td.portion").Text())
	assert.Equal(t, 2, meal.Find("ul.substitutions li").Length())
	assert.Contains(t, meal.Find("aside.observations").Text(), "take with skim milk")

	assert.Equal(t, 2, doc.Find("section.shopping li").Length())

	block := doc.Find("section.block")
	require.Equal(t, 1, block.Length())
	letter, _ := block.Attr("data-letter")
	assert.Equal(t, "A", letter)
	assert.Equal(t, "TRAINING BLOCK A - Month 1", block.Find("h2").Text())
	assert.Equal(t, 3, block.Find("tr.exercise").Length())

	var hrefs []string
	block.Find("a.video").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	assert.Equal(t, []string{"https://videos.example.com/bench", "https://videos.example.com/squat"}, hrefs)
	assert.Equal(t, 1, block.Find("span.no-video").Length())

	method := block.Find("aside.method")
	require.Equal(t, 1, method.Length())
	key, _ := method.Attr("data-key")
	assert.Equal(t, "rest-pause", key)
}

func TestRenderHTML_EscapesText(t *testing.T) {
	page := Build(&types.Plan{
		Meals: []types.Meal{{Name: "<script>alert(1)</script>", FoodItems: []types.FoodItem{}}},
	}, nil, nil, Options{Title: "T", Brand: "red; background: url(x)"})

	doc := renderDOM(t, page)
	assert.Equal(t, 0, doc.Find("main script").Length())
	assert.Equal(t, "<script>alert(1)</script>", doc.Find("section.meal h2").Text())
	assert.Equal(t, "No items listed.", doc.Find("section.meal p.empty").Text())
	assert.Contains(t, doc.Find("style").Text(), DefaultBrand)
}

func TestRenderHTML_Paragraphs(t *testing.T) {
	plan := parsing.ParsePlan("GENERAL GUIDANCE\nDrink water through the day.\nSleep eight hours.", parsing.DefaultOptions())
	require.True(t, plan.IsFallback())

	doc := renderDOM(t, Build(plan, nil, nil, Options{Title: "Notes"}))
	assert.Equal(t, "GENERAL GUIDANCE", doc.Find("h2.paragraph-heading").Text())
	assert.Equal(t, 2, doc.Find("p.paragraph").Length())
}

func TestRenderTerminal(t *testing.T) {
	out := RenderTerminal(testPage(t), 80)

	for _, want := range []string{
		"Coaching plan · Ana Souza",
		"Breakfast",
		"Oatmeal",
		"Options for Oatmeal: Granola 40g; Tapioca 30g",
		"Shopping list",
		"TRAINING BLOCK A - Month 1",
		"Bench Press",
		"https://videos.example.com/bench",
		noVideoLabel,
		"Rest-pause",
	} {
		assert.Contains(t, out, want)
	}

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 80, "line %q", line)
	}
}

func TestRenderTerminal_NarrowWidth(t *testing.T) {
	out := RenderTerminal(testPage(t), 10)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), minWidth, "line %q", line)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer text", 8, "much lo…"},
		{"açaí bowl", 5, "açaí…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, lipgloss.Width(got), tt.n)
		})
	}
}
