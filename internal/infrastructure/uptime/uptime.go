// Package uptime tracks how long the serving process has been running.
package uptime

import "time"

var process = New()

// Process returns the clock started when the binary was loaded.
func Process() *Clock {
	return process
}

// Clock measures elapsed time from a fixed start. Readings come from the
// monotonic clock, so wall clock adjustments never make uptime go backwards.
type Clock struct {
	started time.Time
	now     func() time.Time
}

func New() *Clock {
	return NewWithNow(time.Now)
}

// NewWithNow starts a clock driven by now. It is used by tests to control time.
func NewWithNow(now func() time.Time) *Clock {
	return &Clock{
		started: now(),
		now:     now,
	}
}

func (c *Clock) StartedAt() time.Time {
	return c.started
}

func (c *Clock) Now() time.Time {
	return c.now()
}

func (c *Clock) Uptime() time.Duration {
	return c.At(c.now())
}

// Seconds is Uptime expressed as fractional seconds.
func (c *Clock) Seconds() float64 {
	return c.Uptime().Seconds()
}

// At is the uptime as of the given reading of Now.
func (c *Clock) At(now time.Time) time.Duration {
	d := now.Sub(c.started)
	if d < 0 {
		return 0
	}
	return d
}
