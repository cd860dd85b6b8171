package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/preview"
	"github.com/jonathan/coach-report/internal/types"
)

// TextRequest is the body of the preview and parse endpoints.
type TextRequest struct {
	PlanText string `json:"plan_text"`
	Client   string `json:"client,omitempty"`
	// Kind selects the title and the parser variant; empty parses both sections.
	Kind string `json:"kind,omitempty"`
}

// MatchResponse is one resolved exercise name.
type MatchResponse struct {
	Name      string `json:"name"`
	Known     bool   `json:"known"`
	Canonical string `json:"canonical,omitempty"`
	URL       string `json:"url,omitempty"`
	Tier      string `json:"tier"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (TextRequest, error) {
	var body TextRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return body, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if strings.TrimSpace(body.PlanText) == "" {
		return body, pipeline.ErrNothingToGenerate
	}
	return body, nil
}

// variantFor picks the parser variant from the ?variant= parameter, then
// from the body's kind.
func variantFor(r *http.Request, kind string) (parsing.Variant, error) {
	if v := r.URL.Query().Get("variant"); v != "" {
		variant, ok := parsing.ParseVariant(v)
		if !ok {
			return parsing.VariantAuto, &ErrValidation{Field: "variant", Message: "must be auto, nutrition or workout"}
		}
		return variant, nil
	}
	switch types.PlanKind(kind) {
	case types.PlanNutrition:
		return parsing.VariantNutrition, nil
	case types.PlanWorkout:
		return parsing.VariantWorkout, nil
	}
	return parsing.VariantAuto, nil
}

func (s *Server) parsePlan(r *http.Request, body TextRequest) (*types.Plan, error) {
	variant, err := variantFor(r, body.Kind)
	if err != nil {
		return nil, err
	}
	opts := s.parse
	opts.Variant = variant
	return parsing.ParsePlan(body.PlanText, opts), nil
}

// handleParse returns the structured plan as JSON.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := decodeText(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	plan, err := s.parsePlan(r, body)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, plan)
}

// handlePreview renders the plan as HTML (default) or terminal text.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = preview.FormatHTML
	}
	if format != preview.FormatHTML && format != preview.FormatTerm {
		s.errorResponse(w, http.StatusBadRequest, "format must be html or term")
		return
	}

	body, err := decodeText(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	plan, err := s.parsePlan(r, body)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	page := preview.Build(plan, s.matcher.NewSession(nil), s.methods, preview.Options{
		Title:  pipeline.Title(types.PlanKind(body.Kind)),
		Client: body.Client,
		Brand:  s.brand,
	})

	if format == preview.FormatTerm {
		width := 0
		if v := r.URL.Query().Get("width"); v != "" {
			width, _ = strconv.Atoi(v)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(preview.RenderTerminal(page, width)))
		return
	}

	var buf bytes.Buffer
	if err := preview.RenderHTML(&buf, page); err != nil {
		s.log.Error("preview rendering failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleMatch resolves one exercise name against the catalog.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	surface := matching.Surface(r.URL.Query().Get("surface"))
	switch surface {
	case "":
		surface = matching.SurfaceScreen
	case matching.SurfacePrint, matching.SurfaceScreen:
	default:
		s.errorResponse(w, http.StatusBadRequest, "surface must be print or screen")
		return
	}

	res := s.matcher.NewSession(nil).Resolve(surface, name)
	s.jsonResponse(w, http.StatusOK, MatchResponse{
		Name:      name,
		Known:     res.Known,
		Canonical: res.Canonical,
		URL:       res.URL,
		Tier:      res.Tier.String(),
	})
}
