package domain

import "time"

type HealthStatus string

const (
	StatusOK          HealthStatus = "ok"
	StatusUnavailable HealthStatus = "unavailable"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision, matching
// what browsers produce for Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
