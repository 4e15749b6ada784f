package shared

import "time"

// Clock supplies the current date to domain operations that stamp dates
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a clock in the given location (UTC when nil)
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

// Now returns the current time
func (c SystemClock) Now() time.Time {
	return time.Now().In(c.location())
}

// Today returns the current date truncated to midnight
func (c SystemClock) Today() time.Time {
	return TruncateToDate(c.Now())
}

func (c SystemClock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the fixed instant's date
func (c FixedClock) Today() time.Time {
	return TruncateToDate(c.At)
}

// TruncateToDate drops the time-of-day part, keeping the location
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
