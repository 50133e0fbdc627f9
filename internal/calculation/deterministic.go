package calculation

import "time"

// nowFunc returns the current time (override in tests for determinism).
// Only its calendar year is used, as the year-zero anchor of a projection.
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// currentYear returns the calendar year used as projection year zero
func currentYear() int {
	return nowFunc().Year()
}

// CurrentYear is currentYear for callers outside the engine
func CurrentYear() int { return currentYear() }
