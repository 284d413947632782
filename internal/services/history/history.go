package history

import (
	"context"
	"errors"
	"sort"
	"time"

	"SmartScan/pkg/util"
)

// ErrNoData is returned when no equity data exists within the resolver's
// lookback bound. It is the only fatal outcome of a scan.
var ErrNoData = errors.New("history: no equity data within lookback bound")

// Availability reports whether a feed has records for a date.
type Availability func(ctx context.Context, date time.Time) (bool, error)

// Resolve finds the most recent date with available data, starting at the
// as-of day and walking backward one calendar day at a time, skipping
// weekends, for at most lookback calendar days.
func Resolve(ctx context.Context, avail Availability, asof time.Time, lookback int) (time.Time, error) {
	cur := util.DateOnly(asof)
	for i := 0; i <= lookback; i++ {
		d := cur.AddDate(0, 0, -i)
		if !util.IsWeekday(d) {
			continue
		}
		ok, err := avail(ctx, d)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return d, nil
		}
	}
	return time.Time{}, ErrNoData
}

// Window concatenates the record sets of the n most recent weekdays strictly
// before ref into one pool. Days that yield nothing, including days whose
// fetch fails, are skipped; the pool may be empty.
func Window[T any](ctx context.Context, ref time.Time, n int, fetch func(context.Context, time.Time) ([]T, error)) []T {
	var pool []T
	for _, d := range util.WeekdaysBefore(ref, n) {
		recs, err := fetch(ctx, d)
		if err != nil || len(recs) == 0 {
			continue
		}
		pool = append(pool, recs...)
	}
	return pool
}

// GroupBySymbol indexes a pool by symbol, each group sorted ascending by
// date. The pool itself is left untouched.
func GroupBySymbol[T any](pool []T, symbol func(T) string, date func(T) time.Time) map[string][]T {
	groups := make(map[string][]T)
	for _, rec := range pool {
		s := symbol(rec)
		groups[s] = append(groups[s], rec)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return date(g[i]).Before(date(g[j])) })
	}
	return groups
}
