package util

import (
	"testing"
	"time"
)

func TestWeekdaysBeforeSkipsWeekends(t *testing.T) {
	// Monday 2025-08-18; the 3 weekdays before are Wed 13, Thu 14, Fri 15.
	mon := time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	got := WeekdaysBefore(mon, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got))
	}
	want := []int{13, 14, 15}
	for i, d := range got {
		if d.Day() != want[i] {
			t.Fatalf("day %d: expected %d, got %d", i, want[i], d.Day())
		}
		if !IsWeekday(d) {
			t.Fatalf("returned a weekend day %v", d)
		}
	}
}

func TestWeekdaysBeforeAscending(t *testing.T) {
	got := WeekdaysBefore(time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), 30)
	for i := 1; i < len(got); i++ {
		if !got[i].After(got[i-1]) {
			t.Fatalf("not ascending at %d: %v >= %v", i, got[i-1], got[i])
		}
	}
}

func TestWeekdaysAfterFromFriday(t *testing.T) {
	// Friday 2025-08-15 -> next weekdays are Mon 18, Tue 19.
	fri := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	got := WeekdaysAfter(fri, 2)
	if got[0].Day() != 18 || got[1].Day() != 19 {
		t.Fatalf("unexpected days %v", got)
	}
}

func TestNearestAtOrBefore(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }
	cands := []time.Time{day(11), day(13), day(14), day(20)}

	got, ok := NearestAtOrBefore(day(15), cands)
	if !ok || got.Day() != 14 {
		t.Fatalf("expected 14, got %v ok=%v", got, ok)
	}

	got, ok = NearestAtOrBefore(day(13), cands)
	if !ok || got.Day() != 13 {
		t.Fatalf("exact match should win, got %v", got)
	}

	if _, ok := NearestAtOrBefore(day(10), cands); ok {
		t.Fatalf("expected no candidate at or before the 10th")
	}
}
