package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/value-bet-service/internal/models"
	"github.com/cypherlabdev/value-bet-service/pkg/parlay"
)

const (
	readyTimeout   = 2 * time.Second
	maxRequestBody = 1 << 20
)

// Analysis is the analysis surface served over HTTP
type Analysis interface {
	AnalyzeDay(ctx context.Context, date time.Time) (*models.AnalysisResult, error)
	AnalyzeDays(ctx context.Context, today, tomorrow time.Time) (*models.AnalysisResult, error)
	AnalyzeFixture(ctx context.Context, fixtureID string) (*models.FixtureAnalysis, error)
	ParlayCompute(selection []models.BetCandidate, stake decimal.Decimal) (*parlay.Result, error)
	Options() models.Options
	SetOptions(ctx context.Context, opts models.Options) error
	NewCycle(ctx context.Context) string
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// AnalysisHandler handles HTTP requests from the UI collaborator
type AnalysisHandler struct {
	analysis Analysis
	ready    Pinger
	logger   zerolog.Logger
}

// NewAnalysisHandler creates a new analysis HTTP handler. ready may be nil.
func NewAnalysisHandler(analysis Analysis, ready Pinger, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		ready:    ready,
		logger:   logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided router
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/analysis/{date}", h.GetDayAnalysis)
		r.Get("/fixtures/{fixtureID}/analysis", h.GetFixtureAnalysis)
		r.Post("/parlay", h.ComputeParlay)
		r.Get("/options", h.GetOptions)
		r.Put("/options", h.UpdateOptions)
		r.Post("/cycles", h.StartCycle)
	})
}

// HealthCheck returns 200 if the service is running
func (h *AnalysisHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "value-bet-service",
	})
}

// ReadyCheck returns 200 if the response cache is reachable
func (h *AnalysisHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.ready.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("cache unavailable")
			h.respondError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetDayAnalysis handles GET /api/v1/analysis/{date}?include_tomorrow=true
func (h *AnalysisHandler) GetDayAnalysis(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	includeTomorrow := false
	if raw := r.URL.Query().Get("include_tomorrow"); raw != "" {
		includeTomorrow, err = strconv.ParseBool(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "include_tomorrow must be a boolean")
			return
		}
	}

	var result *models.AnalysisResult
	if includeTomorrow {
		result, err = h.analysis.AnalyzeDays(r.Context(), date, date.AddDate(0, 0, 1))
	} else {
		result, err = h.analysis.AnalyzeDay(r.Context(), date)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetFixtureAnalysis handles GET /api/v1/fixtures/{fixtureID}/analysis
func (h *AnalysisHandler) GetFixtureAnalysis(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "fixtureID")

	analysis, err := h.analysis.AnalyzeFixture(r.Context(), fixtureID)
	if err != nil {
		h.logger.Debug().Err(err).Str("fixture_id", fixtureID).Msg("fixture analysis failed")
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analysis)
}

// ParlayRequest is the body of POST /api/v1/parlay
type ParlayRequest struct {
	Selection []models.BetCandidate `json:"selection"`
	Stake     decimal.Decimal       `json:"stake"`
}

// ComputeParlay handles POST /api/v1/parlay
func (h *AnalysisHandler) ComputeParlay(w http.ResponseWriter, r *http.Request) {
	var req ParlayRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analysis.ParlayCompute(req.Selection, req.Stake)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetOptions handles GET /api/v1/options
func (h *AnalysisHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.analysis.Options())
}

// UpdateOptions handles PUT /api/v1/options. Fields left out of the body
// keep their current value.
func (h *AnalysisHandler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.analysis.Options()
	if err := h.decode(w, r, &opts); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.analysis.SetOptions(r.Context(), opts); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.analysis.Options())
}

// StartCycle handles POST /api/v1/cycles
func (h *AnalysisHandler) StartCycle(w http.ResponseWriter, r *http.Request) {
	cycle := h.analysis.NewCycle(r.Context())
	h.respondJSON(w, http.StatusCreated, map[string]string{"cycle": cycle})
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps an error chain to an HTTP status
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindInvalidInput, models.KindInvalidOdd:
		return http.StatusBadRequest
	case models.KindProviderEmpty:
		return http.StatusNotFound
	case models.KindProviderUnavailable, models.KindProviderRateLimited:
		return http.StatusServiceUnavailable
	case models.KindProviderForbidden, models.KindProviderSchema:
		return http.StatusBadGateway
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *AnalysisHandler) respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		h.logger.Error().Err(err).Msg("request failed")
	}
	h.respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  string(models.KindOf(err)),
	})
}

// respondJSON writes a JSON response
func (h *AnalysisHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError writes a JSON error response
func (h *AnalysisHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{
		"error": message,
	})
}
