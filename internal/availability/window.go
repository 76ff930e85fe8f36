// Package availability decides whether a table can be reserved for a
// requested time window.  Every booking occupies its table for a fixed
// two-hour half-open window [start, start+2h), so two bookings on the
// same table conflict exactly when their windows overlap.  Conflicts is
// the single source of truth for that rule; every code path that needs
// an overlap decision must go through it.
package availability

import "time"

// SlotDuration is how long a single booking occupies its table.
const SlotDuration = 2 * time.Hour

// Conflicts reports whether a booking starting at requested would
// overlap a booking starting at existing on the same table.  Windows
// are half-open, so a booking that starts exactly when another ends is
// allowed (back-to-back bookings do not conflict).
func Conflicts(requested, existing time.Time) bool {
	return requested.Before(existing.Add(SlotDuration)) &&
		requested.Add(SlotDuration).After(existing)
}

// FreeAt reports whether a window starting at requested is free given
// the start times of the bookings already on the table.  A table with
// no bookings is trivially free.
func FreeAt(existing []time.Time, requested time.Time) bool {
	for _, t := range existing {
		if Conflicts(requested, t) {
			return false
		}
	}
	return true
}
