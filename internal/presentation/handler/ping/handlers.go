package ping

import (
	"net/http"

	"github.com/rsvshop/rsvshop/internal/domain"
	"github.com/rsvshop/rsvshop/internal/infrastructure/json"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/uptime"
)

// Handler answers liveness probes. It never touches a database or any other
// dependency, so it keeps answering while those are degraded.
type Handler struct {
	clock  *uptime.Clock
	logger logging.Logger
}

func NewHandler(clock *uptime.Clock, logger logging.Logger) *Handler {
	return &Handler{
		clock:  clock,
		logger: logger,
	}
}

// GetPing godoc
// @Summary      Liveness ping
// @Description  Returns status, server time and process uptime in seconds
// @Tags         health
// @Produce      json
// @Success      200 {object} pingResponse
// @Router       /ping [get]
func (h *Handler) GetPing(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	resp := pingResponse{
		Status:    domain.StatusOK,
		Timestamp: domain.FormatTimestamp(now),
		Uptime:    h.clock.At(now).Seconds(),
	}

	if err := json.Write(w, http.StatusOK, resp); err != nil {
		h.logger.Error(logging.Internal, logging.Api, "failed to write ping response", map[logging.ExtraKey]any{
			logging.Path:         r.URL.Path,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (h *Handler) HeadPing(w http.ResponseWriter, r *http.Request) {
	json.WriteHead(w, http.StatusOK)
}
