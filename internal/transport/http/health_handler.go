package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"attendancify/internal/services"
)

// HealthChecker reports liveness, readiness and build information
type HealthChecker interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

// HealthHandler serves the probe and version endpoints. They are registered
// outside the upload group so probes are never rate limited.
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates the probe handler
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Register adds GET /health, /health/ready and /version to r
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Get("/version", h.Version)
}

// HealthCheck always answers 200 while the process serves requests
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.checker.HealthCheck(r.Context()))
}

// ReadinessCheck answers 503 until the working directories are writable
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.checker.ReadinessCheck(r.Context())
	h.logger.DebugContext(r.Context(), "Readiness probe", slog.String("status", status.Status))
	if status.Status != services.StatusReady {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.checker.Version())
}
