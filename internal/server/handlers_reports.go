package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jonathan/coach-report/internal/db"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/schemas"
	"github.com/jonathan/coach-report/internal/types"
)

// ReportStore reads and deletes stored reports.
type ReportStore interface {
	GetReport(ctx context.Context, id uuid.UUID) (*db.Report, error)
	ListReports(ctx context.Context, filters db.ReportFilters) ([]db.ReportSummary, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// GenerateRequest is the request body for report generation.
type GenerateRequest struct {
	Kind     string          `json:"kind"`
	PlanText string          `json:"plan_text"`
	Profile  json.RawMessage `json:"profile,omitempty"`
	// Date is YYYY-MM-DD; empty uses today.
	Date string `json:"date,omitempty"`
}

// ReportResponse describes a generated report without its content.
type ReportResponse struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	FileName string   `json:"file_name"`
	Client   string   `json:"client,omitempty"`
	Pages    int      `json:"pages"`
	Warnings []string `json:"warnings,omitempty"`
	// URL is set when the report was stored and can be fetched again.
	URL string `json:"url,omitempty"`
}

// decodeGenerate reads and validates a GenerateRequest.
func decodeGenerate(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	var body GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return pipeline.Request{}, &ErrValidation{Field: "body", Message: err.Error()}
	}

	kind := types.PlanKind(strings.ToLower(strings.TrimSpace(body.Kind)))
	if !kind.Valid() {
		return pipeline.Request{}, &ErrValidation{Field: "kind", Message: fmt.Sprintf("unknown report kind %q", body.Kind)}
	}
	req := pipeline.Request{Kind: kind, PlanText: body.PlanText}

	if len(body.Profile) > 0 && string(body.Profile) != "null" {
		profile, err := schemas.ParseProfile(body.Profile)
		if err != nil {
			return pipeline.Request{}, err
		}
		req.Profile = profile
	}
	if body.Date != "" {
		date, err := time.Parse(time.DateOnly, body.Date)
		if err != nil {
			return pipeline.Request{}, &ErrValidation{Field: "date", Message: "expected YYYY-MM-DD"}
		}
		req.Date = date
	}
	return req, nil
}

func (s *Server) reportResponse(a *types.Artifact) ReportResponse {
	resp := ReportResponse{
		ID:       a.ID.String(),
		Kind:     string(a.Kind),
		FileName: a.FileName,
		Client:   a.Client,
		Pages:    a.Pages,
		Warnings: a.Warnings,
	}
	if s.store != nil {
		resp.URL = "/api/v1/reports/" + resp.ID
	}
	return resp
}

// handleGenerate renders a report and returns the PDF.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	artifact, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.log.Warn("report generation failed", "kind", string(req.Kind), "error", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("X-Report-Id", artifact.ID.String())
	w.Header().Set("X-Report-Pages", strconv.Itoa(artifact.Pages))
	if len(artifact.Warnings) > 0 {
		w.Header().Set("X-Report-Warnings", strconv.Itoa(len(artifact.Warnings)))
	}
	writePDF(w, artifact.FileName, artifact.Content)
}

// handleGenerateStream renders a report and streams progress as SSE. The
// final event carries the report description, not the PDF.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	req.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.log.Debug("failed to write progress event", "error", err)
		}
	}

	artifact, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.log.Warn("report generation failed", "kind", string(req.Kind), "error", err)
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	sse.WriteComplete(s.reportResponse(artifact))
}

// handleListReports lists stored reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, ErrNoStore.Error())
		return
	}

	q := r.URL.Query()
	filters := db.ReportFilters{
		Client: q.Get("client"),
		Kind:   q.Get("kind"),
		Limit:  50,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filters.Limit = min(n, 500)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filters.Offset = n
	}

	reports, err := s.store.ListReports(r.Context(), filters)
	if err != nil {
		s.log.Error("failed to list reports", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []db.ReportSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": reports, "count": len(reports)})
}

// handleGetReport returns a stored report's PDF.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.log.Error("failed to get report", "id", id.String(), "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil {
		s.errorResponse(w, http.StatusNotFound, "report not found")
		return
	}

	w.Header().Set("X-Report-Id", report.ID.String())
	w.Header().Set("X-Report-Pages", strconv.Itoa(report.Pages))
	writePDF(w, report.FileName, report.Content)
}

// handleDeleteReport removes a stored report.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		s.log.Error("failed to delete report", "id", id.String(), "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reportID parses the {id} URL parameter, writing the error response itself.
func (s *Server) reportID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, ErrNoStore.Error())
		return uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid report id")
		return uuid.Nil, false
	}
	return id, true
}

func writePDF(w http.ResponseWriter, fileName string, content []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
