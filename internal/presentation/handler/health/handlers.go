package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rsvshop/rsvshop/internal/domain"
	"github.com/rsvshop/rsvshop/internal/infrastructure/json"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/uptime"
)

type Handler struct {
	clock    *uptime.Clock
	version  string
	instance string
	logger   logging.Logger
	draining atomic.Bool
}

func NewHandler(clock *uptime.Clock, version string, logger logging.Logger) *Handler {
	return &Handler{
		clock:    clock,
		version:  version,
		instance: uuid.NewString(),
		logger:   logger,
	}
}

// Drain marks the instance as not ready. Liveness is unaffected.
func (h *Handler) Drain() {
	if h.draining.CompareAndSwap(false, true) {
		h.logger.Info(logging.General, logging.Readiness, "readiness probe switched to unavailable", nil)
	}
}

func (h *Handler) Ready() bool {
	return !h.draining.Load()
}

// GetHealth godoc
// @Summary      Liveness check
// @Description  Returns uptime and build information. Always 200 while the process runs.
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse
// @Router       /health [get]
// @Router       /health/live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, domain.StatusOK)
}

// GetReady godoc
// @Summary      Readiness check
// @Description  Returns 503 once the server has started shutting down
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Ready to serve"
// @Failure      503 {object} healthResponse "Draining"
// @Router       /health/ready [get]
func (h *Handler) GetReady(w http.ResponseWriter, r *http.Request) {
	if !h.Ready() {
		h.write(w, r, http.StatusServiceUnavailable, domain.StatusUnavailable)
		return
	}

	h.write(w, r, http.StatusOK, domain.StatusOK)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, code int, status domain.HealthStatus) {
	now := h.clock.Now()
	up := h.clock.At(now)

	err := json.Write(w, code, healthResponse{
		Status:      status,
		Timestamp:   domain.FormatTimestamp(now),
		Uptime:      up.Seconds(),
		StartedAt:   domain.FormatTimestamp(h.clock.StartedAt()),
		UptimeHuman: up.Round(time.Second).String(),
		Version:     h.version,
		Instance:    h.instance,
	})
	if err != nil {
		h.logger.Error(logging.Internal, logging.Api, "failed to write health response", map[logging.ExtraKey]any{
			logging.Path:         r.URL.Path,
			logging.ErrorMessage: err.Error(),
		})
	}
}
