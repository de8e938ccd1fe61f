package health

import "github.com/rsvshop/rsvshop/internal/domain"

// healthResponse represents the health status of the API
type healthResponse struct {
	Status      domain.HealthStatus `json:"status" example:"ok" enum:"ok,unavailable"`    // Health status
	Timestamp   string              `json:"timestamp" example:"2026-10-18T09:30:05.123Z"` // Current server timestamp, ISO-8601 UTC
	Uptime      float64             `json:"uptime" example:"9045.2"`                      // Seconds since start
	StartedAt   string              `json:"startedAt" example:"2026-10-18T07:00:00.000Z"` // Process start, ISO-8601 UTC
	UptimeHuman string              `json:"uptimeHuman" example:"2h30m45s"`               // Uptime rounded to the second
	Version     string              `json:"version" example:"1.4.2"`
	Instance    string              `json:"instance" example:"5b1f1d4e-6c1a-4b8e-9f7e-2d6c1c0f2a11"`
}
