package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/aura/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Until returns the duration from the clock's current time until t.
// Instants already in the past yield a negative duration.
func Until(c Clock, t time.Time) time.Duration {
	return t.Sub(c.Now())
}
