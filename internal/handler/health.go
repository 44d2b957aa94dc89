package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spendwise/spendwise/internal/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db       Pinger
	sessions Pinger
	logger   *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db, sessions Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		sessions: sessions,
		logger:   logger,
	}
}

// Healthz handles GET /healthz. Always OK while the process is serving.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz. Ready only when both backing stores answer.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"sessions": "ok",
	}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed",
			slog.String("component", "database"),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		checks["database"] = "unavailable"
		ready = false
	}

	if err := h.sessions.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed",
			slog.String("component", "sessions"),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		checks["sessions"] = "unavailable"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"ready":  ready,
		"checks": checks,
	})
}
