package screen

import (
	"testing"

	"SmartScan/internal/domain/models"
)

func TestEligiblePriceFloor(t *testing.T) {
	p := DefaultFilterParams()
	rec := models.EquityRecord{Symbol: "ABC", Close: 99.99, TradedValue: 1e9}
	if Eligible(rec, nil, false, p) {
		t.Fatalf("close below 100 must be excluded")
	}
	rec.Close = 100
	if !Eligible(rec, nil, false, p) {
		t.Fatalf("close at 100 must pass")
	}
}

func TestEligibleLiquidityFloor(t *testing.T) {
	p := DefaultFilterParams()
	rec := models.EquityRecord{Symbol: "ABC", Close: 500, TradedValue: 499_999_999}
	if Eligible(rec, nil, false, p) {
		t.Fatalf("traded value below the floor must be excluded")
	}
}

func TestEligibleUniverse(t *testing.T) {
	p := DefaultFilterParams()
	universe := map[string]struct{}{"INFUT": {}}
	in := models.EquityRecord{Symbol: "INFUT", Close: 500, TradedValue: 1e9}
	out := models.EquityRecord{Symbol: "NOFUT", Close: 500, TradedValue: 1e9}

	if !Eligible(in, universe, true, p) {
		t.Fatalf("universe member must pass")
	}
	if Eligible(out, universe, true, p) {
		t.Fatalf("non-member must be excluded when a universe exists")
	}
	// No derivatives session at all: sub-filter skipped.
	if !Eligible(out, nil, false, p) {
		t.Fatalf("universe sub-filter must be skipped without a session")
	}
}

func TestScoreKnownBlend(t *testing.T) {
	ind := models.IndicatorSet{
		VolSurge:      models.MetricOf(2.0),
		DeliverySurge: models.MetricOf(1.5),
		LongBuildUp:   models.MetricOf(1),
		Breakout:      models.MetricOf(1),
		RS:            models.MetricOf(1.1),
	}
	got := Score(ind, DefaultWeights())
	want := 0.35*2.0 + 0.25*1.5 + 0.20 + 0.15 + 0.05*1.1
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestScoreVolSurgeContribution(t *testing.T) {
	ind := models.IndicatorSet{VolSurge: models.MetricOf(2.0)}
	if got := Score(ind, DefaultWeights()); got != 0.70 {
		t.Fatalf("VolSurge 2.0 alone must contribute 0.70, got %v", got)
	}
}

func TestScoreClipsExtremes(t *testing.T) {
	w := DefaultWeights()
	ind := models.IndicatorSet{
		VolSurge:      models.MetricOf(1e6),
		DeliverySurge: models.MetricOf(1e6),
		LongBuildUp:   models.MetricOf(1),
		Breakout:      models.MetricOf(1),
		RS:            models.MetricOf(1e6),
	}
	got := Score(ind, w)
	if got != 3.35 {
		t.Fatalf("maximum score must be 3.35, got %v", got)
	}
	neg := models.IndicatorSet{VolSurge: models.MetricOf(-2)}
	if got := Score(neg, w); got != 0 {
		t.Fatalf("negative surges clip to zero, got %v", got)
	}
}

func TestScoreUndefinedTreatedAsZero(t *testing.T) {
	if got := Score(models.IndicatorSet{}, DefaultWeights()); got != 0 {
		t.Fatalf("all-undefined indicators must score 0, got %v", got)
	}
}

func TestRankOrderAndTruncation(t *testing.T) {
	cands := []models.Candidate{
		{Symbol: "F", Score: 0.1},
		{Symbol: "A", Score: 3.0},
		{Symbol: "C", Score: 2.0},
		{Symbol: "E", Score: 0.2},
		{Symbol: "D", Score: 1.0},
		{Symbol: "B", Score: 2.5},
	}
	top := Rank(cands, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("not descending at %d", i)
		}
	}
	if top[0].Symbol != "A" || top[4].Symbol != "E" {
		t.Fatalf("unexpected order: %+v", top)
	}
}

func TestRankTieBreakAscendingSymbol(t *testing.T) {
	cands := []models.Candidate{
		{Symbol: "ZZZ", Score: 1.0},
		{Symbol: "AAA", Score: 1.0},
		{Symbol: "MMM", Score: 1.0},
	}
	got := Rank(cands, 5)
	if got[0].Symbol != "AAA" || got[1].Symbol != "MMM" || got[2].Symbol != "ZZZ" {
		t.Fatalf("ties must order by ascending symbol: %+v", got)
	}
}

func TestRankFewerThanTopN(t *testing.T) {
	got := Rank([]models.Candidate{{Symbol: "A", Score: 1}}, 5)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
}
