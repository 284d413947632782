package derivatives

import (
	"context"
	"testing"
	"time"

	"SmartScan/internal/domain/models"
)

func day(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }

func fut(sym string, expiryDay int, close, oi float64) models.FuturesRecord {
	return models.FuturesRecord{
		Symbol:       sym,
		Instrument:   models.InstrumentStockFuture,
		Expiry:       day(expiryDay),
		Close:        close,
		OpenInterest: oi,
	}
}

// sessionFetch serves canned sessions keyed by day of month.
func sessionFetch(sessions map[int][]models.FuturesRecord) FetchFunc {
	return func(_ context.Context, d time.Time) ([]models.FuturesRecord, error) {
		return sessions[d.Day()], nil
	}
}

func TestFrontMonthEarliestExpiry(t *testing.T) {
	recs := []models.FuturesRecord{
		fut("ABC", 28, 100, 500),
		fut("ABC", 25, 101, 600),
		{Symbol: "ABC", Instrument: "OPTSTK", Expiry: day(20), Close: 5, OpenInterest: 9999},
	}
	front := FrontMonth(recs)
	if got := front["ABC"]; got.Expiry.Day() != 25 {
		t.Fatalf("expected expiry on the 25th, got %v", got.Expiry)
	}
}

func TestFrontMonthFirstSeenTieBreak(t *testing.T) {
	a := fut("ABC", 25, 100, 500)
	b := fut("ABC", 25, 200, 900)
	front := FrontMonth([]models.FuturesRecord{a, b})
	if front["ABC"].Close != 100 {
		t.Fatalf("equal expiries must keep the first-seen record")
	}
}

func TestBuildLongBuildUp(t *testing.T) {
	// Friday the 15th: OI up 4%, price up 1% -> long build-up.
	sessions := map[int][]models.FuturesRecord{
		15: {fut("ABC", 28, 101, 1040), fut("XYZ", 28, 99, 500)},
		14: {fut("ABC", 28, 100, 1000), fut("XYZ", 28, 100, 500)},
	}
	sig := Build(context.Background(), sessionFetch(sessions), day(15), DefaultParams())
	abc := sig["ABC"]
	if !abc.OIChgPct.Valid || abc.OIChgPct.Value != 4 {
		t.Fatalf("expected OI change 4%%, got %+v", abc.OIChgPct)
	}
	if abc.LongBuildUp.Value != 1 {
		t.Fatalf("expected long build-up for ABC")
	}
	// XYZ: flat OI, price down 1% -> no build-up, metrics defined.
	xyz := sig["XYZ"]
	if xyz.LongBuildUp.Value != 0 {
		t.Fatalf("expected no build-up for XYZ")
	}
	if !xyz.PxChgPct.Valid || xyz.PxChgPct.Value != -1 {
		t.Fatalf("expected price change -1%%, got %+v", xyz.PxChgPct)
	}
}

func TestBuildLeftJoinUnmatchedSymbol(t *testing.T) {
	sessions := map[int][]models.FuturesRecord{
		15: {fut("NEW", 28, 100, 1000)},
		14: {fut("OLD", 28, 100, 1000)},
	}
	sig := Build(context.Background(), sessionFetch(sessions), day(15), DefaultParams())
	n, ok := sig["NEW"]
	if !ok {
		t.Fatalf("reference-session symbol must appear in the join")
	}
	if n.OIChgPct.Valid || n.PxChgPct.Valid {
		t.Fatalf("unmatched symbol must carry undefined change metrics")
	}
	if n.LongBuildUp.Value != 0 {
		t.Fatalf("unmatched symbol cannot be a build-up")
	}
	if _, ok := sig["OLD"]; ok {
		t.Fatalf("join is keyed on the reference session only")
	}
}

func TestBuildForwardBoundForLaggedSession(t *testing.T) {
	// Nothing on Friday the 15th; session published Monday the 18th.
	sessions := map[int][]models.FuturesRecord{
		18: {fut("ABC", 28, 101, 1040)},
		14: {fut("ABC", 28, 100, 1000)},
	}
	sig := Build(context.Background(), sessionFetch(sessions), day(15), DefaultParams())
	if sig == nil {
		t.Fatalf("expected the forward bound to find Monday's session")
	}
	if sig["ABC"].OIChgPct.Value != 4 {
		t.Fatalf("expected previous session from the 14th, got %+v", sig["ABC"])
	}
}

func TestBuildMissingSessions(t *testing.T) {
	if sig := Build(context.Background(), sessionFetch(nil), day(15), DefaultParams()); sig != nil {
		t.Fatalf("expected nil signals when no session exists")
	}
	// Reference session present but no previous within bound.
	sessions := map[int][]models.FuturesRecord{15: {fut("ABC", 28, 100, 1000)}}
	if sig := Build(context.Background(), sessionFetch(sessions), day(15), DefaultParams()); sig != nil {
		t.Fatalf("expected nil signals without a previous session")
	}
}

func TestUniverse(t *testing.T) {
	sessions := map[int][]models.FuturesRecord{
		13: {fut("ABC", 28, 100, 1000), fut("XYZ", 28, 50, 200)},
	}
	set, ok := Universe(context.Background(), sessionFetch(sessions), day(15), 5)
	if !ok {
		t.Fatalf("expected universe from the 13th")
	}
	if _, in := set["ABC"]; !in {
		t.Fatalf("ABC missing from universe")
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(set))
	}

	if _, ok := Universe(context.Background(), sessionFetch(nil), day(15), 5); ok {
		t.Fatalf("expected no universe when no session within bound")
	}
}
