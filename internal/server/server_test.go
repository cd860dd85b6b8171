package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coach-report/internal/catalog"
	"github.com/jonathan/coach-report/internal/db"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/pipeline"
	"github.com/jonathan/coach-report/internal/server/ratelimit"
)

const workoutPlan = `TRAINING BLOCK A: Month 1
1 - Bench Press 3x10
2 - Squat 4x12/10/8/6`

type memStore struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*db.Report
	err     error
}

func newMemStore() *memStore {
	return &memStore{reports: make(map[uuid.UUID]*db.Report)}
}

func (m *memStore) SaveReport(_ context.Context, r *db.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.CreatedAt = time.Now()
	m.reports[r.ID] = r
	return nil
}

func (m *memStore) GetReport(_ context.Context, id uuid.UUID) (*db.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.reports[id], nil
}

func (m *memStore) ListReports(_ context.Context, f db.ReportFilters) ([]db.ReportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []db.ReportSummary
	for _, r := range m.reports {
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		out = append(out, db.ReportSummary{ID: r.ID, Kind: r.Kind, Client: r.Client, FileName: r.FileName, Pages: r.Pages, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (m *memStore) DeleteReport(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reports, id)
	return nil
}

func newTestServer(t *testing.T, store *memStore, rl *ratelimit.Config) *Server {
	t.Helper()
	idx := catalog.NewIndex(map[string]string{
		"Bench Press": "https://videos.example.com/bench",
		"Squat":       "",
	})
	methods, err := catalog.DefaultMethods()
	require.NoError(t, err)
	matcher := matching.NewMatcher(idx)

	opts := pipeline.Options{}
	deps := Deps{Matcher: matcher, Methods: methods}
	if store != nil {
		opts.Store = store
		deps.Store = store
	}
	deps.Generator = pipeline.NewGenerator(matcher, methods, opts)

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s := New(Config{Port: 0, RateLimit: rl}, deps)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":false}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodOptions, "/api/v1/reports", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/reports", GenerateRequest{
		Kind:     "workout",
		PlanText: workoutPlan,
		Profile:  json.RawMessage(`{"name":"Ana Souza"}`),
		Date:     "2026-03-14",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="workout-ana-souza-2026-03-14.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rec.Header().Get("X-Report-Pages"))
	_, err := uuid.Parse(rec.Header().Get("X-Report-Id"))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestGenerate_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed body", `{"kind":`, http.StatusBadRequest},
		{"unknown field", `{"kind":"workout","plan":"x"}`, http.StatusBadRequest},
		{"unknown kind", GenerateRequest{Kind: "invoice", PlanText: "x"}, http.StatusBadRequest},
		{"bad date", GenerateRequest{Kind: "workout", PlanText: workoutPlan, Date: "14/03/2026"}, http.StatusBadRequest},
		{"profile fails schema", GenerateRequest{Kind: "assessment", Profile: json.RawMessage(`{"sex":"female"}`)}, http.StatusBadRequest},
		{"nothing to generate", GenerateRequest{Kind: "nutrition", PlanText: "  \n"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/reports", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestGenerateStream(t *testing.T) {
	s := newTestServer(t, newMemStore(), nil)

	rec := do(t, s, http.MethodPost, "/api/v1/reports/stream", GenerateRequest{Kind: "workout", PlanText: workoutPlan})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 5, strings.Count(body, "event: progress\n"))
	assert.Contains(t, body, `"step":"parse"`)
	assert.Contains(t, body, `"step":"store"`)

	idx := strings.Index(body, "event: complete\ndata: ")
	require.GreaterOrEqual(t, idx, 0)
	data := strings.TrimSpace(body[idx+len("event: complete\ndata: "):])
	var report ReportResponse
	require.NoError(t, json.Unmarshal([]byte(data), &report))
	assert.Equal(t, "workout", report.Kind)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, "/api/v1/reports/"+report.ID, report.URL)
}

func TestGenerateStream_Error(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/reports/stream", GenerateRequest{Kind: "workout"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error\n")
	assert.Contains(t, rec.Body.String(), `"status":422`)
}

func TestStoredReports(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, store, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/reports", GenerateRequest{Kind: "workout", PlanText: workoutPlan})
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Report-Id")
	pdf := rec.Body.Bytes()

	rec = do(t, s, http.MethodGet, "/api/v1/reports?kind=workout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Reports []db.ReportSummary `json:"reports"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Reports[0].ID.String())

	rec = do(t, s, http.MethodGet, "/api/v1/reports/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pdf, rec.Body.Bytes())

	rec = do(t, s, http.MethodDelete, "/api/v1/reports/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/reports/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoredReports_Errors(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/reports", nil).Code)
		assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/reports/"+uuid.NewString(), nil).Code)
	})

	t.Run("bad parameters", func(t *testing.T) {
		s := newTestServer(t, newMemStore(), nil)
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/reports/not-a-uuid", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/reports?limit=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/reports?offset=-1", nil).Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.err = errors.New("connection refused")
		s := newTestServer(t, store, nil)
		rec := do(t, s, http.MethodGet, "/api/v1/reports", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestParse(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/parse", TextRequest{PlanText: workoutPlan})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bench Press")

	rec = do(t, s, http.MethodPost, "/api/v1/parse?variant=nutrition", TextRequest{PlanText: workoutPlan})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "paragraphs")

	rec = do(t, s, http.MethodPost, "/api/v1/parse?variant=poetry", TextRequest{PlanText: workoutPlan})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/parse", TextRequest{PlanText: " "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/preview", TextRequest{PlanText: workoutPlan, Kind: "workout", Client: "Ana"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "https://videos.example.com/bench")

	rec = do(t, s, http.MethodPost, "/api/v1/preview?format=term&width=80", TextRequest{PlanText: workoutPlan})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bench Press")

	rec = do(t, s, http.MethodPost, "/api/v1/preview?format=pdf", TextRequest{PlanText: workoutPlan})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		target string
		status int
		known  bool
		url    string
	}{
		{"/api/v1/match?name=bench%20press", http.StatusOK, true, "https://videos.example.com/bench"},
		{"/api/v1/match?name=Squat&surface=print", http.StatusOK, true, ""},
		{"/api/v1/match?name=Pilates%20Ring", http.StatusOK, false, ""},
		{"/api/v1/match", http.StatusBadRequest, false, ""},
		{"/api/v1/match?name=Squat&surface=radio", http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp MatchResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.known, resp.Known)
			assert.Equal(t, tt.url, resp.URL)
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, nil, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/v1/match", Method: "GET", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodGet, "/api/v1/match?name=Squat", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, s, http.MethodGet, "/api/v1/match?name=Squat", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// other endpoints use their own bucket
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "kind", Message: "bad"}, http.StatusBadRequest},
		{"input", &pipeline.InputError{Message: "bad profile"}, http.StatusBadRequest},
		{"nothing", pipeline.ErrNothingToGenerate, http.StatusUnprocessableEntity},
		{"in flight", pipeline.ErrGenerationInFlight, http.StatusConflict},
		{"serialization", &pipeline.SerializationError{Message: "x"}, http.StatusServiceUnavailable},
		{"no store", ErrNoStore, http.StatusServiceUnavailable},
		{"layout", &pipeline.LayoutError{}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
