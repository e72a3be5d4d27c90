package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/dependencies/clock"
)

// Pinger checks a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service status
type HealthHandler struct {
	storage Pinger
	clock   clock.Clock
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage Pinger, clock clock.Clock, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{storage: storage, clock: clock, version: version, logger: logger}
}

// Health handles GET /api/v1/health. An unreachable store answers 503
// SERVICE_UNAVAILABLE.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := response.Health{
		Status:    "ok",
		Timestamp: h.clock.Now().UTC(),
		Version:   h.version,
		Storage:   "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("storage ping failed", slog.String("error", err.Error()))
		WriteError(w, NewUnavailableError("Storage is unreachable"))
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
