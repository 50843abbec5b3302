// Package window derives the four-month date range around a reference date.
package window

import "time"

// Range is a closed interval of whole days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the window around the reference date: two calendar months
// before through two calendar months after, both normalized to midnight.
// The span is fixed policy and deliberately not configurable.
func Bounds(reference time.Time) Range {
	ref := normalize(reference)
	return Range{
		Start: addMonths(ref, -2),
		End:   addMonths(ref, 2),
	}
}

// addMonths shifts a date by whole calendar months, clamping to the last
// day of the target month when the source day does not exist there
// (Dec 31 plus two months is Feb 28/29, not an overflow into March).
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether d falls inside the range, bounds inclusive.
func (r Range) Contains(d time.Time) bool {
	d = normalize(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// normalize truncates a time to midnight UTC
func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
