package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/samims/stillup/internal/service"
)

type probeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler serves the kubernetes style probes. Both sit outside the
// auth gate.
type HealthHandler struct {
	service service.HealthService
	logger  *slog.Logger
}

func NewHealthHandler(svc service.HealthService, l *slog.Logger) *HealthHandler {
	return &HealthHandler{service: svc, logger: l.With("layer", "handler", "component", "health")}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Liveness(r.Context()); err != nil {
		h.writeProbe(w, http.StatusInternalServerError, probeResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	h.writeProbe(w, http.StatusOK, probeResponse{Status: "ok"})
}

// Readiness reports 503 while the database is unreachable so the instance is
// taken out of rotation rather than restarted.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Readiness(r.Context()); err != nil {
		h.logger.Warn("Readiness probe failed", slog.Any("error", err))
		h.writeProbe(w, http.StatusServiceUnavailable, probeResponse{Status: "not_ready", Error: err.Error()})
		return
	}
	h.writeProbe(w, http.StatusOK, probeResponse{Status: "ready"})
}

func (h *HealthHandler) writeProbe(w http.ResponseWriter, status int, body probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write probe response", slog.Any("error", err))
	}
}
