package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
)

// HubStats reports websocket hub counters
type HubStats interface {
	Stats() map[string]interface{}
}

// MetricsHandler serves in-process counters as JSON. Prometheus metrics
// are served separately at /metrics.
type MetricsHandler struct {
	health *services.HealthService
	hub    HubStats
}

// NewMetricsHandler creates a new metrics handler. hub may be nil.
func NewMetricsHandler(health *services.HealthService, hub HubStats) *MetricsHandler {
	return &MetricsHandler{health: health, hub: hub}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.GetStats)
	return r
}

// GetStats handles GET /api/metrics/stats
func (h *MetricsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"counts": h.health.Stats(),
	}
	if h.hub != nil {
		response["websocket"] = h.hub.Stats()
	}
	render.JSON(w, r, response)
}
