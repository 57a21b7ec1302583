// Package server exposes the AI flows over HTTP to the marketplace frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/ai/schema"
	"github.com/fundihub/fundihub/internal/cache"
	"github.com/fundihub/fundihub/internal/marketplace"
	"github.com/fundihub/fundihub/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reader is the slice of the store the handlers need. Tests substitute it.
type Reader interface {
	GetJob(ctx context.Context, id string) (*marketplace.JobDetails, error)
	ListQuotesByJob(ctx context.Context, jobID string) ([]marketplace.QuoteSummary, error)
	GetProviderProfile(ctx context.Context, id string) (*marketplace.ProviderProfileSummary, error)
	ListOpenJobs(ctx context.Context, limit int) ([]marketplace.AvailableJobSummary, error)
}

// Handler wires store reads, the result cache and the two AI flows into HTTP
// endpoints.
type Handler struct {
	Store    Reader
	Cache    *cache.Cache
	Analyzer ai.QuoteAnalyzer
	Leads    ai.LeadFinder
	Logger   *zap.Logger

	// OpenJobsLimit caps how many open jobs are offered to the smart-leads
	// flow per request. Zero means the store default.
	OpenJobsLimit int
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("POST /v1/jobs/{id}/quote-analysis", h.handleQuoteAnalysis)
	mux.HandleFunc("POST /v1/providers/{id}/smart-leads", h.handleSmartLeads)
}

// New builds the HTTP server for the given handler.
func New(h *Handler, addr string) *http.Server {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &http.Server{
		Addr:              addr,
		Handler:           h.withRequestLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) handleQuoteAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")

	job, err := h.Store.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger().Error("loading job failed", zap.String("job_id", jobID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading job failed")
		return
	}

	quotes, err := h.Store.ListQuotesByJob(ctx, jobID)
	if err != nil {
		h.logger().Error("loading quotes failed", zap.String("job_id", jobID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading quotes failed")
		return
	}

	if len(quotes) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "job has no quotes to analyze")
		return
	}

	key := cache.AnalysisKey(jobID, quotes)
	if cached, err := h.Cache.GetAnalysis(ctx, key); err != nil {
		h.logger().Warn("analysis cache read failed", zap.String("job_id", jobID), zap.Error(err))
	} else if cached != nil {
		writeJSON(w, http.StatusOK, analysisResponse{JobID: jobID, Analysis: cached, Cached: true})
		return
	}

	analysis, err := h.Analyzer.AnalyzeJobQuotes(ctx, &ai.QuoteAnalysisInput{Job: *job, Quotes: quotes})
	if err != nil {
		var verr *schema.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ai.ErrEmptyAnalysis):
			writeError(w, http.StatusBadGateway, "analysis unavailable")
		default:
			h.logger().Error("quote analysis failed", zap.String("job_id", jobID), zap.Error(err))
			writeError(w, http.StatusBadGateway, "analysis unavailable")
		}
		return
	}

	if err := h.Cache.SetAnalysis(ctx, key, analysis); err != nil {
		h.logger().Warn("analysis cache write failed", zap.String("job_id", jobID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, analysisResponse{JobID: jobID, Analysis: analysis})
}

func (h *Handler) handleSmartLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	providerID := r.PathValue("id")

	profile, err := h.Store.GetProviderProfile(ctx, providerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "provider profile not found")
			return
		}
		h.logger().Error("loading provider profile failed", zap.String("provider_id", providerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading provider profile failed")
		return
	}

	jobs, err := h.Store.ListOpenJobs(ctx, h.OpenJobsLimit)
	if err != nil {
		h.logger().Error("loading open jobs failed", zap.String("provider_id", providerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading open jobs failed")
		return
	}

	leads, err := h.Leads.FindSmartLeads(ctx, &ai.SmartLeadsInput{Profile: *profile, Jobs: jobs})
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger().Error("smart leads failed", zap.String("provider_id", providerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "smart leads failed")
		return
	}

	writeJSON(w, http.StatusOK, leadsResponse{ProviderID: providerID, Recommendations: leads})
}

type analysisResponse struct {
	JobID    string            `json:"jobId"`
	Analysis *ai.QuoteAnalysis `json:"analysis"`
	Cached   bool              `json:"cached,omitempty"`
}

type leadsResponse struct {
	ProviderID      string                  `json:"providerId"`
	Recommendations []ai.LeadRecommendation `json:"recommendations"`
}

// withRequestLog tags every request with an id and logs its outcome.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		h.logger().Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
