// Package pipeline assembles finished reports: it parses plan text, resolves
// exercise videos, lays the report out and serializes it.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/coach-report/internal/bodycomp"
	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/db"
	"github.com/jonathan/coach-report/internal/layout"
	"github.com/jonathan/coach-report/internal/logger"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/rendering"
	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/internal/validation"
	"github.com/jonathan/coach-report/internal/views"
)

// Progress steps.
const (
	StepParse     = "parse"
	StepCompose   = "compose"
	StepValidate  = "validate"
	StepSerialize = "serialize"
	StepStore     = "store"
)

// sectionGap separates the body section from the plan that follows it.
const sectionGap = 6.0

// ProgressEvent represents a progress update during report generation
type ProgressEvent struct {
	Step      string `json:"step"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists finished reports.
type Store interface {
	SaveReport(ctx context.Context, r *db.Report) error
}

// Options configures a Generator. Zero values select A4, the default theme
// and the default parser options.
type Options struct {
	Geometry   layout.PageGeometry
	Theme      rendering.Theme
	Parse      parsing.Options
	Store      Store
	Logger     *logger.Logger
	OnProgress ProgressCallback
	// Now is the clock used when a request carries no date.
	Now func() time.Time
}

// Request is one report to generate.
type Request struct {
	PlanText string
	Profile  *types.Profile
	Kind     types.PlanKind
	// Date stamps the footer and file name; zero means Options.Now.
	Date time.Time
	// OnProgress receives this request's events in addition to Options.OnProgress.
	OnProgress ProgressCallback
}

// key identifies the input for the in-flight guard.
func (r Request) key() string {
	client := ""
	if r.Profile != nil {
		client = r.Profile.Name
	}
	return string(r.Kind) + "\x00" + client + "\x00" + r.PlanText
}

// Generator turns requests into report artifacts. It is safe for concurrent
// use; each call gets its own matcher session, paginator and document.
type Generator struct {
	matcher *matching.Matcher
	methods *catalog.Methods
	opts    Options
	log     *logger.Logger

	// serialize writes a finished document; tests replace it.
	serialize func(*rendering.Document) ([]byte, error)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGenerator builds a generator over a read-only catalog. methods may be nil.
func NewGenerator(matcher *matching.Matcher, methods *catalog.Methods, opts Options) *Generator {
	if opts.Geometry == (layout.PageGeometry{}) {
		opts.Geometry = layout.A4()
	}
	if opts.Theme == (rendering.Theme{}) {
		opts.Theme = rendering.DefaultTheme()
	}
	if opts.Parse == (parsing.Options{}) {
		opts.Parse = parsing.DefaultOptions()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Generator{
		matcher:   matcher,
		methods:   methods,
		opts:      opts,
		log:       log,
		serialize: (*rendering.Document).Bytes,
		inFlight:  make(map[string]struct{}),
	}
}

// Generate produces one finished report. It returns ErrNothingToGenerate
// before parsing when there is nothing to render, ErrGenerationInFlight when
// the same input is already being generated, and *SerializationError when the
// document cannot be written. No artifact is returned with an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.Artifact, error) {
	if !req.Kind.Valid() {
		return nil, &InputError{Message: fmt.Sprintf("unknown report kind %q", req.Kind)}
	}
	if !hasInput(req) {
		return nil, ErrNothingToGenerate
	}
	if usesBody(req) {
		if err := req.Profile.Validate(); err != nil {
			return nil, &InputError{Message: "invalid profile", Cause: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := req.key()
	if !g.acquire(key) {
		return nil, ErrGenerationInFlight
	}
	defer g.release(key)

	sessionID := uuid.New()
	log := g.log.With("session_id", sessionID.String(), "kind", string(req.Kind))
	emit := g.emitter(sessionID, req.Kind, req.OnProgress)
	date := req.Date
	if date.IsZero() {
		date = g.opts.Now()
	}
	client := ""
	if req.Profile != nil {
		client = req.Profile.Name
	}
	started := time.Now()
	log.Info("report generation started", "client", client)

	var plan *types.Plan
	if strings.TrimSpace(req.PlanText) != "" {
		opts := g.opts.Parse
		opts.Variant = variantFor(req.Kind)
		plan = parsing.ParsePlan(req.PlanText, opts)
		log.Debug("plan parsed",
			"meals", len(plan.Meals), "blocks", len(plan.Blocks), "fallback", plan.IsFallback())
		emit(StepParse,
			fmt.Sprintf("Parsed %d meal(s) and %d training block(s)", len(plan.Meals), len(plan.Blocks)), plan)
	}

	var metrics bodycomp.Metrics
	if usesBody(req) {
		metrics = bodycomp.Compute(req.Profile, log)
	}

	doc, err := rendering.NewDocument(rendering.Options{
		Geometry: g.opts.Geometry,
		Theme:    g.opts.Theme,
		Title:    Title(req.Kind),
		Client:   client,
		Date:     date,
	})
	if err != nil {
		return nil, err
	}

	session := g.matcher.NewSession(nil)
	if err := g.compose(doc, req, plan, metrics, session); err != nil {
		log.Error("report composition failed", "error", err)
		return nil, err
	}
	pages := doc.Finish()
	emit(StepCompose, fmt.Sprintf("Composed %d page(s)", pages), nil)

	violations := validation.CheckPlacements(doc.Placements(), g.opts.Geometry)
	if violations.HasErrors() {
		log.Error("placement check failed", "violations", len(violations.Violations))
		return nil, &LayoutError{Violations: violations}
	}
	emit(StepValidate, "Placements within page bounds", violations)

	content, err := g.serialize(doc)
	if err != nil {
		log.Error("report serialization failed", "error", err)
		return nil, &SerializationError{Message: "failed to write PDF", Cause: err}
	}
	for _, v := range validation.CheckPageCount(content, pages).Violations {
		log.Warn("page count check", "type", v.Type, "details", v.Details)
	}
	emit(StepSerialize, fmt.Sprintf("Serialized %d bytes", len(content)), nil)

	artifact := &types.Artifact{
		ID:        sessionID,
		Kind:      req.Kind,
		FileName:  FileName(req.Kind, client, date),
		Client:    client,
		Pages:     pages,
		Warnings:  warnings(metrics),
		CreatedAt: time.Now(),
		Content:   content,
	}

	if g.opts.Store != nil {
		g.save(ctx, log, emit, artifact, sessionID, req.PlanText)
	}

	log.Info("report generation completed",
		"file", artifact.FileName, "pages", pages, "warnings", len(artifact.Warnings),
		"duration_ms", time.Since(started).Milliseconds())
	return artifact, nil
}

// compose lays out the body section first when it applies, then the plan.
func (g *Generator) compose(doc *rendering.Document, req Request, plan *types.Plan, m bodycomp.Metrics, session *matching.Session) error {
	if usesBody(req) {
		if err := doc.ComposeBody(req.Profile, m); err != nil {
			return err
		}
		doc.Pager().Space(sectionGap)
	}
	if plan == nil {
		return nil
	}

	if plan.IsFallback() {
		return doc.ComposeParagraphs(plan.Paragraphs)
	}
	if len(plan.Meals) > 0 || len(plan.ShoppingList) > 0 {
		if err := doc.ComposeNutrition(plan); err != nil {
			return err
		}
	}
	if len(plan.Blocks) > 0 {
		videos := views.SessionLookup(session, matching.SurfacePrint)
		if err := doc.ComposeWorkout(plan, videos, g.methods); err != nil {
			return err
		}
	}
	return nil
}

// save persists the artifact. Storage is best effort: a failure is logged
// and the artifact is still returned.
func (g *Generator) save(ctx context.Context, log *logger.Logger, emit emitFunc, a *types.Artifact, sessionID uuid.UUID, planText string) {
	err := g.opts.Store.SaveReport(ctx, &db.Report{
		ID:        a.ID,
		SessionID: sessionID,
		Kind:      string(a.Kind),
		Client:    a.Client,
		FileName:  a.FileName,
		Pages:     a.Pages,
		Warnings:  a.Warnings,
		PlanText:  planText,
		Content:   a.Content,
	})
	if err != nil {
		log.Warn("failed to store report", "error", err)
		return
	}
	emit(StepStore, "Stored report "+a.ID.String(), nil)
}

func (g *Generator) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

func (g *Generator) release(key string) {
	g.mu.Lock()
	delete(g.inFlight, key)
	g.mu.Unlock()
}

type emitFunc func(step, message string, content any)

// emitter returns a function that sends one event to every configured callback.
func (g *Generator) emitter(sessionID uuid.UUID, kind types.PlanKind, perRequest ProgressCallback) emitFunc {
	return func(step, message string, content any) {
		if g.opts.OnProgress == nil && perRequest == nil {
			return
		}
		event := ProgressEvent{
			Step:      step,
			Kind:      string(kind),
			Message:   message,
			SessionID: sessionID.String(),
			Content:   content,
		}
		if g.opts.OnProgress != nil {
			g.opts.OnProgress(event)
		}
		if perRequest != nil {
			perRequest(event)
		}
	}
}

// hasInput reports whether a request has anything to render. Assessments
// render from the profile alone; other kinds need plan text.
func hasInput(req Request) bool {
	if strings.TrimSpace(req.PlanText) != "" {
		return true
	}
	if req.Kind != types.PlanAssessment || req.Profile == nil {
		return false
	}
	ms := req.Profile.Measurements
	return req.Profile.HasComposition() || ms != (types.Measurements{})
}

// usesBody reports whether the body-composition section is composed.
func usesBody(req Request) bool {
	if req.Profile == nil {
		return false
	}
	return req.Kind == types.PlanAssessment || req.Profile.HasComposition()
}

func variantFor(kind types.PlanKind) parsing.Variant {
	switch kind {
	case types.PlanNutrition:
		return parsing.VariantNutrition
	case types.PlanWorkout:
		return parsing.VariantWorkout
	}
	return parsing.VariantAuto
}

func warnings(m bodycomp.Metrics) []string {
	if len(m.Corrections) == 0 {
		return nil
	}
	out := make([]string, len(m.Corrections))
	for i, c := range m.Corrections {
		out[i] = c.String()
	}
	return out
}
