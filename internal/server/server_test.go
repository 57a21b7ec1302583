package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/marketplace"
	"github.com/fundihub/fundihub/internal/store"
	"go.uber.org/zap"
)

type stubReader struct {
	job     *marketplace.JobDetails
	jobErr  error
	quotes  []marketplace.QuoteSummary
	quoErr  error
	profile *marketplace.ProviderProfileSummary
	profErr error
	jobs    []marketplace.AvailableJobSummary
	jobsErr error

	lastJobsLimit int
}

func (s *stubReader) GetJob(_ context.Context, _ string) (*marketplace.JobDetails, error) {
	return s.job, s.jobErr
}

func (s *stubReader) ListQuotesByJob(_ context.Context, _ string) ([]marketplace.QuoteSummary, error) {
	return s.quotes, s.quoErr
}

func (s *stubReader) GetProviderProfile(_ context.Context, _ string) (*marketplace.ProviderProfileSummary, error) {
	return s.profile, s.profErr
}

func (s *stubReader) ListOpenJobs(_ context.Context, limit int) ([]marketplace.AvailableJobSummary, error) {
	s.lastJobsLimit = limit
	return s.jobs, s.jobsErr
}

type stubAnalyzer struct {
	analysis *ai.QuoteAnalysis
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeJobQuotes(_ context.Context, _ *ai.QuoteAnalysisInput) (*ai.QuoteAnalysis, error) {
	s.calls++
	return s.analysis, s.err
}

type stubLeads struct {
	leads []ai.LeadRecommendation
	err   error
}

func (s *stubLeads) FindSmartLeads(_ context.Context, _ *ai.SmartLeadsInput) ([]ai.LeadRecommendation, error) {
	return s.leads, s.err
}

func populatedReader() *stubReader {
	return &stubReader{
		job: &marketplace.JobDetails{ID: "job-1", Title: "Fix leaking pipe", Description: "Kitchen sink leaks."},
		quotes: []marketplace.QuoteSummary{
			{ID: "q1", Amount: 1500, Currency: "KES", Provider: marketplace.ProviderReputation{BusinessName: "Mombasa Plumbing Works"}},
		},
		profile: &marketplace.ProviderProfileSummary{
			ID:           "p1",
			BusinessName: "Mombasa Plumbing Works",
			Category:     "Plumbing",
			Location:     "Mombasa",
		},
		jobs: []marketplace.AvailableJobSummary{
			{ID: "j1", Title: "Install bathroom fittings", Description: "Two bathrooms.", Category: "Plumbing", Location: "Mombasa"},
		},
	}
}

func serveRequest(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

func TestQuoteAnalysisEndpoint(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &ai.QuoteAnalysis{
		Summary:          "One quote, fair price.",
		ProsCons:         []ai.QuoteProsCons{{QuoteID: "q1", Pros: []string{"Cheap"}, Cons: []string{}}},
		BestValueQuoteID: "q1",
	}}

	h := &Handler{Store: populatedReader(), Analyzer: analyzer, Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/jobs/job-1/quote-analysis")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		JobID    string           `json:"jobId"`
		Analysis ai.QuoteAnalysis `json:"analysis"`
		Cached   bool             `json:"cached"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if body.JobID != "job-1" || body.Analysis.BestValueQuoteID != "q1" || body.Cached {
		t.Fatalf("unexpected response body: %+v", body)
	}
}

func TestQuoteAnalysisJobNotFound(t *testing.T) {
	reader := populatedReader()
	reader.jobErr = store.ErrNotFound

	h := &Handler{Store: reader, Analyzer: &stubAnalyzer{}, Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/jobs/missing/quote-analysis")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestQuoteAnalysisNoQuotes(t *testing.T) {
	reader := populatedReader()
	reader.quotes = nil

	analyzer := &stubAnalyzer{}
	h := &Handler{Store: reader, Analyzer: analyzer, Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/jobs/job-1/quote-analysis")
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}

	if analyzer.calls != 0 {
		t.Fatalf("expected no analysis call without quotes, got %d", analyzer.calls)
	}
}

func TestQuoteAnalysisUnavailable(t *testing.T) {
	h := &Handler{
		Store:    populatedReader(),
		Analyzer: &stubAnalyzer{err: ai.ErrEmptyAnalysis},
		Logger:   zap.NewNop(),
	}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/jobs/job-1/quote-analysis")
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", recorder.Code)
	}
}

func TestQuoteAnalysisStoreFailure(t *testing.T) {
	reader := populatedReader()
	reader.quoErr = errors.New("connection refused")

	h := &Handler{Store: reader, Analyzer: &stubAnalyzer{}, Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/jobs/job-1/quote-analysis")
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestSmartLeadsEndpoint(t *testing.T) {
	reader := populatedReader()
	leads := &stubLeads{leads: []ai.LeadRecommendation{
		{JobID: "j1", Reason: "Exact specialty match.", Confidence: 95},
	}}

	h := &Handler{Store: reader, Leads: leads, Logger: zap.NewNop(), OpenJobsLimit: 10}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/providers/p1/smart-leads")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		ProviderID      string                  `json:"providerId"`
		Recommendations []ai.LeadRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if body.ProviderID != "p1" || len(body.Recommendations) != 1 || body.Recommendations[0].JobID != "j1" {
		t.Fatalf("unexpected response body: %+v", body)
	}

	if reader.lastJobsLimit != 10 {
		t.Fatalf("expected configured open jobs limit to be used, got %d", reader.lastJobsLimit)
	}
}

func TestSmartLeadsProviderNotFound(t *testing.T) {
	reader := populatedReader()
	reader.profErr = store.ErrNotFound

	h := &Handler{Store: reader, Leads: &stubLeads{}, Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/providers/missing/smart-leads")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestSmartLeadsEmptyRecommendations(t *testing.T) {
	h := &Handler{
		Store:  populatedReader(),
		Leads:  &stubLeads{leads: []ai.LeadRecommendation{}},
		Logger: zap.NewNop(),
	}

	recorder := serveRequest(t, h, http.MethodPost, "/v1/providers/p1/smart-leads")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var body struct {
		Recommendations []ai.LeadRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if body.Recommendations == nil || len(body.Recommendations) != 0 {
		t.Fatalf("expected an empty recommendations list, got %+v", body.Recommendations)
	}
}

func TestHealthz(t *testing.T) {
	h := &Handler{Logger: zap.NewNop()}

	recorder := serveRequest(t, h, http.MethodGet, "/healthz")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestRequestLogSetsRequestID(t *testing.T) {
	h := &Handler{Logger: zap.NewNop()}
	srv := New(h, ":0")

	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header to be set")
	}
}
