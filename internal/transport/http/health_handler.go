package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
)

// HealthHandler serves the status endpoints polled by the orchestrator and
// scraped by uptime checks. They sit outside the session middleware, so
// polling them never creates a dashboard session or touches uploaded tables.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler wraps the health service
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck is the cheap "process is up" answer with the running version
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, h.service.HealthCheck(r.Context()), "ok")
}

// ReadinessCheck answers 503 until the session store and the websocket hub
// are both wired, so traffic is held back from a half-built process.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, h.service.ReadinessCheck(r.Context()), "ready")
}

// LivenessCheck adds runtime figures (uptime, goroutines) to the up answer
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, r, h.service.LivenessCheck(r.Context()), "alive")
}

// Version reports the build the dashboard is running
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, h.service.Version())
}

// writeStatus renders st uncached. Any status other than want answers 503.
func (h *HealthHandler) writeStatus(w http.ResponseWriter, r *http.Request, st services.HealthStatus, want string) {
	w.Header().Set("Cache-Control", "no-store")
	if st.Status != want {
		h.logger.WarnContext(r.Context(), "status check failed",
			slog.String("path", r.URL.Path),
			slog.String("status", st.Status),
			slog.Any("services", st.Services))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, st)
}
