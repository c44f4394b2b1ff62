package ledger

import (
	"time"
)

// DateOf returns midnight UTC of t's calendar day in t's own location.
// Database DATE values and user supplied offsets therefore keep their day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OptionalDate is DateOf for a nullable date.
func OptionalDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOf(*t)
	return &d
}

// Advance returns the occurrence following date for the given frequency.
// Monthly steps use time.AddDate, so a day that does not exist in the next
// month rolls over (Jan 31 -> Mar 2 or 3) instead of being clamped.
// ok is false when the frequency has no advancement rule.
func Advance(date time.Time, freq RepeatFrequency) (next time.Time, ok bool) {
	switch freq {
	case RepeatDaily:
		return date.AddDate(0, 0, 1), true
	case RepeatWeekly:
		return date.AddDate(0, 0, 7), true
	case RepeatMonthly:
		return date.AddDate(0, 1, 0), true
	}
	return date, false
}

// WholeYears returns the completed years between birth and on. It is never
// negative.
func WholeYears(birth, on time.Time) int {
	birth, on = DateOf(birth), DateOf(on)
	years := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// DueOccurrences lists the occurrence dates of a schedule starting at next that
// are at or before now. At most limit+1 dates are returned so callers can
// detect a backlog larger than limit without walking it.
func DueOccurrences(next time.Time, freq RepeatFrequency, now time.Time, limit int) []time.Time {
	next, today := DateOf(next), DateOf(now)

	var dates []time.Time
	for !next.After(today) {
		dates = append(dates, next)
		if len(dates) > limit {
			break
		}
		var ok bool
		next, ok = Advance(next, freq)
		if !ok {
			break
		}
	}
	return dates
}
