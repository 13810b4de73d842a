package domain

import "time"

type CheckIn struct {
	ID          string
	UserID      string
	GymID       string
	CreatedAt   time.Time
	ValidatedAt *time.Time // nil until the check-in is confirmed
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBounds returns the half-open interval [start, end) covering t's
// calendar date in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// CalendarDate formats t's calendar date in t's location as YYYY-MM-DD,
// the key persistent stores index check-ins by.
func CalendarDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
