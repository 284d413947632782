package util

import "time"

// IsWeekday reports whether d falls on Monday through Friday.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DateOnly truncates t to midnight UTC, keeping only the calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdaysBefore returns the n most recent weekdays strictly before d,
// ordered oldest to newest.
func WeekdaysBefore(d time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	cur := DateOnly(d)
	for len(out) < n {
		cur = cur.AddDate(0, 0, -1)
		if IsWeekday(cur) {
			out = append(out, cur)
		}
	}
	// reverse to ascending
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// WeekdaysAfter returns the n nearest weekdays strictly after d, ascending.
func WeekdaysAfter(d time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	cur := DateOnly(d)
	for len(out) < n {
		cur = cur.AddDate(0, 0, 1)
		if IsWeekday(cur) {
			out = append(out, cur)
		}
	}
	return out
}

// NearestAtOrBefore returns the latest date in candidates that is not after
// target, and false when no candidate qualifies.
func NearestAtOrBefore(target time.Time, candidates []time.Time) (time.Time, bool) {
	target = DateOnly(target)
	var best time.Time
	found := false
	for _, c := range candidates {
		c = DateOnly(c)
		if c.After(target) {
			continue
		}
		if !found || c.After(best) {
			best = c
			found = true
		}
	}
	return best, found
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
