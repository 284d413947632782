package derivatives

import (
	"context"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/pkg/util"
)

// Params bounds the session searches and sets the long build-up thresholds.
// The derivatives archive is published with a lag, so the reference session
// may sit a weekday after the equity reference date.
type Params struct {
	ForwardBound  int
	BackwardBound int
	UniverseBound int
	OIChangeMin   float64
	PxChangeMin   float64
}

// DefaultParams returns the documented defaults: reference session searched
// on the reference day then one weekday forward, previous session up to 7
// weekdays back, universe session up to 5 weekdays back.
func DefaultParams() Params {
	return Params{
		ForwardBound:  1,
		BackwardBound: 7,
		UniverseBound: 5,
		OIChangeMin:   3.0,
		PxChangeMin:   -0.1,
	}
}

// FetchFunc yields a day's futures records, nil when the session is absent.
type FetchFunc func(ctx context.Context, date time.Time) ([]models.FuturesRecord, error)

// FrontMonth restricts a session to stock futures and keeps the earliest
// expiry per symbol. Equal expiries keep the first-seen record.
func FrontMonth(recs []models.FuturesRecord) map[string]models.FuturesRecord {
	front := make(map[string]models.FuturesRecord)
	for _, r := range recs {
		if r.Instrument != models.InstrumentStockFuture {
			continue
		}
		cur, ok := front[r.Symbol]
		if !ok || r.Expiry.Before(cur.Expiry) {
			front[r.Symbol] = r
		}
	}
	return front
}

// Build locates the reference and previous futures sessions and joins their
// front-month records on symbol, keyed by the reference session's symbol
// set. A nil map means a session could not be located; every derivatives
// metric is then undefined and the scan continues without them.
func Build(ctx context.Context, fetch FetchFunc, ref time.Time, p Params) map[string]models.DerivativesSignal {
	refRecs, refDate, ok := locate(ctx, fetch, sessionCandidates(ref, p.ForwardBound))
	if !ok {
		return nil
	}
	prevRecs, _, ok := locate(ctx, fetch, reverse(util.WeekdaysBefore(refDate, p.BackwardBound)))
	if !ok {
		return nil
	}

	front := FrontMonth(refRecs)
	prev := FrontMonth(prevRecs)
	if len(front) == 0 || len(prev) == 0 {
		return nil
	}

	signals := make(map[string]models.DerivativesSignal, len(front))
	for sym, cur := range front {
		sig := models.DerivativesSignal{Symbol: sym, LongBuildUp: models.MetricOf(0)}
		if p0, ok := prev[sym]; ok {
			if p0.OpenInterest > 0 {
				sig.OIChgPct = models.MetricOf((cur.OpenInterest - p0.OpenInterest) / p0.OpenInterest * 100)
			}
			if p0.Close > 0 {
				sig.PxChgPct = models.MetricOf((cur.Close - p0.Close) / p0.Close * 100)
			}
			if sig.OIChgPct.Valid && sig.PxChgPct.Valid &&
				sig.OIChgPct.Value > p.OIChangeMin && sig.PxChgPct.Value >= p.PxChangeMin {
				sig.LongBuildUp = models.MetricOf(1)
			}
		}
		signals[sym] = sig
	}
	return signals
}

// Universe returns the front-month stock-future symbol set of the most
// recent session at or before ref within the bound. ok is false when no
// session exists at all, in which case the eligibility sub-filter is
// skipped rather than excluding every symbol.
func Universe(ctx context.Context, fetch FetchFunc, ref time.Time, bound int) (map[string]struct{}, bool) {
	dates := append([]time.Time{util.DateOnly(ref)}, reverse(util.WeekdaysBefore(ref, bound))...)
	recs, _, ok := locate(ctx, fetch, dates)
	if !ok {
		return nil, false
	}
	front := FrontMonth(recs)
	if len(front) == 0 {
		return nil, false
	}
	set := make(map[string]struct{}, len(front))
	for sym := range front {
		set[sym] = struct{}{}
	}
	return set, true
}

// sessionCandidates lists the reference day (when a weekday) followed by
// the nearest weekdays after it, up to bound.
func sessionCandidates(ref time.Time, bound int) []time.Time {
	var out []time.Time
	if d := util.DateOnly(ref); util.IsWeekday(d) {
		out = append(out, d)
	}
	return append(out, util.WeekdaysAfter(ref, bound)...)
}

func locate(ctx context.Context, fetch FetchFunc, dates []time.Time) ([]models.FuturesRecord, time.Time, bool) {
	for _, d := range dates {
		recs, err := fetch(ctx, d)
		if err != nil || len(recs) == 0 {
			continue
		}
		return recs, d, true
	}
	return nil, time.Time{}, false
}

func reverse(ds []time.Time) []time.Time {
	out := make([]time.Time, len(ds))
	for i, d := range ds {
		out[len(ds)-1-i] = d
	}
	return out
}
