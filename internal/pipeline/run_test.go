package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/db"
	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/rendering"
	"github.com/jonathan/coach-report/internal/types"
)

const workoutPlan = `TRAINING BLOCK A: Month 1
1 - Bench Press 3x10
2 - Squat 4x12/10/8/6
3 - Triceps Pushdown (drop-set) 3x12`

const nutritionPlan = `Breakfast
Oatmeal
50g
Observations: take with skim milk
Lunch
Rice - 100g
Options for Rice:
- Quinoa 80g`

var testDate = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	idx := catalog.NewIndex(map[string]string{
		"Bench Press 3x10":  "https://videos.example.com/bench",
		"Squat 4x12/10/8/6": "",
	})
	methods, err := catalog.DefaultMethods()
	require.NoError(t, err)
	return NewGenerator(matching.NewMatcher(idx), methods, opts)
}

func ana() *types.Profile {
	return &types.Profile{
		Name:       "Ana Souza",
		Sex:        types.SexFemale,
		HeightM:    1.62,
		WeightKg:   61,
		BodyFatPct: 24,
		Measurements: types.Measurements{
			ArmCm: 28, ChestCm: 90, WaistCm: 70, HipCm: 98, ThighCm: 55, CalfCm: 35,
		},
	}
}

type fakeStore struct {
	mu      sync.Mutex
	reports []*db.Report
	err     error
}

func (s *fakeStore) SaveReport(_ context.Context, r *db.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

func TestGenerate_NothingToGenerate(t *testing.T) {
	g := newTestGenerator(t, Options{})

	tests := []struct {
		name string
		req  Request
	}{
		{"empty workout", Request{Kind: types.PlanWorkout}},
		{"whitespace nutrition", Request{Kind: types.PlanNutrition, PlanText: " \n\t \n"}},
		{"assessment without profile", Request{Kind: types.PlanAssessment}},
		{"assessment without body data", Request{Kind: types.PlanAssessment, Profile: &types.Profile{Name: "Ana"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := g.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrNothingToGenerate)
			assert.Nil(t, artifact)
		})
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	g := newTestGenerator(t, Options{})

	_, err := g.Generate(context.Background(), Request{Kind: "invoice", PlanText: "x"})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "invoice")

	bad := ana()
	bad.Sex = "unknown"
	_, err = g.Generate(context.Background(), Request{Kind: types.PlanAssessment, Profile: bad})
	require.ErrorAs(t, err, &inputErr)
}

func TestGenerate_Workout(t *testing.T) {
	var events []ProgressEvent
	g := newTestGenerator(t, Options{OnProgress: func(e ProgressEvent) { events = append(events, e) }})

	artifact, err := g.Generate(context.Background(), Request{
		Kind:     types.PlanWorkout,
		PlanText: workoutPlan,
		Profile:  &types.Profile{Name: "Ana Souza"},
		Date:     testDate,
	})
	require.NoError(t, err)
	require.NotNil(t, artifact)

	assert.Equal(t, "workout-ana-souza-2026-03-14.pdf", artifact.FileName)
	assert.Equal(t, types.PlanWorkout, artifact.Kind)
	assert.Equal(t, "Ana Souza", artifact.Client)
	assert.Equal(t, 1, artifact.Pages)
	assert.Empty(t, artifact.Warnings)
	assert.True(t, bytes.HasPrefix(artifact.Content, []byte("%PDF-")))
	assert.Contains(t, string(artifact.Content), "https://videos.example.com/bench")

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, artifact.ID.String(), e.SessionID)
	}
	assert.Equal(t, []string{StepParse, StepCompose, StepValidate, StepSerialize}, steps)
}

func TestGenerate_NutritionAndFallback(t *testing.T) {
	g := newTestGenerator(t, Options{Now: func() time.Time { return testDate }})

	artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanNutrition, PlanText: nutritionPlan})
	require.NoError(t, err)
	assert.Equal(t, "nutrition-client-2026-03-14.pdf", artifact.FileName)
	assert.Equal(t, 1, artifact.Pages)

	// training headers are not recognized in a nutrition plan, so the text
	// falls back to paragraphs instead of failing
	artifact, err = g.Generate(context.Background(), Request{Kind: types.PlanNutrition, PlanText: workoutPlan})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, artifact.Pages, 1)
}

func TestGenerate_AssessmentCorrectionWarning(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := newTestGenerator(t, Options{Logger: logger.FromZap(zap.New(core))})

	profile := ana()
	profile.Measurements.HipCm = 30

	artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanAssessment, Profile: profile, Date: testDate})
	require.NoError(t, err)
	require.Len(t, artifact.Warnings, 1)
	assert.Contains(t, artifact.Warnings[0], "30.0")
	assert.Equal(t, "assessment-ana-souza-2026-03-14.pdf", artifact.FileName)

	warns := logs.FilterMessage("implausible hip measurement corrected").All()
	require.Len(t, warns, 1)
	fields := warns[0].ContextMap()
	assert.Equal(t, artifact.ID.String(), fields["session_id"])
	assert.Equal(t, "assessment", fields["kind"])

	assert.Equal(t, 1, logs.FilterMessage("report generation completed").Len())
}

func TestGenerate_BodySectionPrependedForWorkout(t *testing.T) {
	g := newTestGenerator(t, Options{})

	withBody, err := g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Profile: ana(), Date: testDate})
	require.NoError(t, err)

	withoutBody, err := g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Profile: &types.Profile{Name: "Ana Souza"}, Date: testDate})
	require.NoError(t, err)

	assert.Greater(t, len(withBody.Content), len(withoutBody.Content))
	assert.GreaterOrEqual(t, withBody.Pages, withoutBody.Pages)
}

func TestGenerate_InFlightGuard(t *testing.T) {
	g := newTestGenerator(t, Options{})
	req := Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Date: testDate}

	require.True(t, g.acquire(req.key()))
	_, err := g.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	// a different input is not blocked
	other := req
	other.PlanText += "\n4 - Leg Press 3x15"
	_, err = g.Generate(context.Background(), other)
	assert.NoError(t, err)

	g.release(req.key())
	_, err = g.Generate(context.Background(), req)
	assert.NoError(t, err)
}

func TestGenerate_Store(t *testing.T) {
	store := &fakeStore{}
	g := newTestGenerator(t, Options{Store: store})

	artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Date: testDate})
	require.NoError(t, err)
	require.Len(t, store.reports, 1)
	saved := store.reports[0]
	assert.Equal(t, artifact.ID, saved.ID)
	assert.Equal(t, artifact.FileName, saved.FileName)
	assert.Equal(t, workoutPlan, saved.PlanText)
	assert.Equal(t, artifact.Content, saved.Content)
}

func TestGenerate_StoreFailureKeepsArtifact(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &fakeStore{err: errors.New("connection refused")}
	g := newTestGenerator(t, Options{Store: store, Logger: logger.FromZap(zap.New(core))})

	artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Date: testDate})
	require.NoError(t, err)
	assert.NotNil(t, artifact)
	assert.Equal(t, 1, logs.FilterMessage("failed to store report").Len())
}

func TestGenerate_CancelledContext(t *testing.T) {
	g := newTestGenerator(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Request{Kind: types.PlanWorkout, PlanText: workoutPlan})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerializationError(t *testing.T) {
	cause := errors.New("disk full")
	var err error = &SerializationError{Message: "failed to write PDF", Cause: cause}

	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.True(t, serErr.Retryable())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "serialization error: failed to write PDF: disk full", err.Error())
}

func TestGenerate_SerializationFailure(t *testing.T) {
	cause := errors.New("disk full")
	store := &fakeStore{}
	var steps []string
	g := newTestGenerator(t, Options{Store: store, OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) }})
	g.serialize = func(*rendering.Document) ([]byte, error) { return nil, cause }

	artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Date: testDate})
	assert.Nil(t, artifact)

	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.True(t, serErr.Retryable())
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, store.reports)
	assert.NotContains(t, steps, StepSerialize)
	assert.NotContains(t, steps, StepStore)

	// the same input can be generated again once the failure clears
	g.serialize = (*rendering.Document).Bytes
	artifact, err = g.Generate(context.Background(), Request{Kind: types.PlanWorkout, PlanText: workoutPlan, Date: testDate})
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Content)
}

func TestGenerate_LongPanelsSpanPages(t *testing.T) {
	var observations, options strings.Builder
	observations.WriteString("Breakfast\nOatmeal\n50g\nObservations: read the notes below")
	for i := 1; i <= 80; i++ {
		fmt.Fprintf(&observations, "\nNote %d keeps the morning notes going for another full line of text so the panel grows well past one printed page.", i)
	}
	options.WriteString("Lunch\nRice\n100g\nOptions for Rice:")
	for i := 1; i <= 70; i++ {
		fmt.Fprintf(&options, "\n- Alternative grain %d", i)
	}

	tests := []struct {
		name string
		plan string
	}{
		{"long observations", observations.String()},
		{"many substitutions", options.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, Options{})
			artifact, err := g.Generate(context.Background(), Request{Kind: types.PlanNutrition, PlanText: tt.plan, Date: testDate})
			require.NoError(t, err)
			require.NotNil(t, artifact)
			assert.Greater(t, artifact.Pages, 1)
			assert.True(t, bytes.HasPrefix(artifact.Content, []byte("%PDF-")))
		})
	}
}

func TestLayoutError(t *testing.T) {
	err := &LayoutError{Violations: &types.Violations{Violations: []types.Violation{{Details: "row ends below bound"}}}}
	assert.Equal(t, "layout error: 1 placement violation(s): row ends below bound", err.Error())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		kind   types.PlanKind
		client string
		want   string
	}{
		{types.PlanNutrition, "Ana Souza", "nutrition-ana-souza-2026-03-14.pdf"},
		{types.PlanWorkout, "José  da Conceição", "workout-jose-da-conceicao-2026-03-14.pdf"},
		{types.PlanAssessment, "", "assessment-client-2026-03-14.pdf"},
		{types.PlanWorkout, "!!!", "workout-client-2026-03-14.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.kind, tt.client, testDate))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Nutrition Plan", Title(types.PlanNutrition))
	assert.Equal(t, "Training Plan", Title(types.PlanWorkout))
	assert.Equal(t, "Body Assessment", Title(types.PlanAssessment))
	assert.Equal(t, "Report", Title("other"))
}

func TestGenerate_PerRequestProgress(t *testing.T) {
	var global, local []string
	g := newTestGenerator(t, Options{OnProgress: func(e ProgressEvent) { global = append(global, e.Step) }})

	_, err := g.Generate(context.Background(), Request{
		Kind:       types.PlanWorkout,
		PlanText:   workoutPlan,
		Date:       testDate,
		OnProgress: func(e ProgressEvent) { local = append(local, e.Step) },
	})
	require.NoError(t, err)
	assert.Equal(t, global, local)
	assert.Len(t, local, 4)
}
