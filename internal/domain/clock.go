package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for request defaults. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// CurrentDay returns the weekday name ("Monday") of the package clock.
func CurrentDay() string {
	return clock.Now().Weekday().String()
}

// CurrentHour returns the hour of day (0-23) of the package clock.
func CurrentHour() int {
	return clock.Now().Hour()
}
