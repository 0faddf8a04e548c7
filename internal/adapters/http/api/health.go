package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/chesscoach/pkg/metrics"
)

// AvailabilityProvider reports whether analysis can run.
type AvailabilityProvider interface {
	AnalysisAvailable() bool
}

// HealthHandler handles banner, health and metrics requests.
type HealthHandler struct {
	deps    AvailabilityProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps AvailabilityProvider) *HealthHandler {
	return &HealthHandler{
		deps:    deps,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type bannerResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Analysis string `json:"analysis"`
}

// HandleRoot handles GET / requests.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{Message: "Chess Game Analyzer API", Status: "running"})
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Analysis: "unavailable"}
	if h.deps.AnalysisAvailable() {
		resp.Analysis = "available"
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMetrics handles GET /metrics requests from our custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
