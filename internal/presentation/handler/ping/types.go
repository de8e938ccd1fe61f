package ping

import "github.com/rsvshop/rsvshop/internal/domain"

// pingResponse is the liveness payload
type pingResponse struct {
	Status    domain.HealthStatus `json:"status" example:"ok"`                          // Always "ok"
	Timestamp string              `json:"timestamp" example:"2026-10-18T09:30:05.123Z"` // Server clock, ISO-8601 UTC
	Uptime    float64             `json:"uptime" example:"3725.42"`                     // Seconds since process start
}
