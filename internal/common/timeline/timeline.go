// Package timeline provides a single sequential event timeline on which
// scheduled activities and user actions run one at a time.
package timeline

import "time"

// Timer is a handle to a scheduled activity
type Timer interface {
	// Stop cancels the activity. It reports whether the activity was still
	// pending. Once Stop returns the callback never runs again.
	Stop() bool
}

// Timeline schedules callbacks on one sequential timeline
type Timeline interface {
	// Now returns the timeline's current time
	Now() time.Time

	// After runs fn once after d
	After(d time.Duration, fn func()) Timer

	// Every runs fn every d until the returned timer is stopped
	Every(d time.Duration, fn func()) Timer
}

// minInterval keeps periodic activities from spinning on a zero interval
const minInterval = time.Millisecond

func normalizeInterval(d time.Duration) time.Duration {
	if d < minInterval {
		return minInterval
	}
	return d
}
