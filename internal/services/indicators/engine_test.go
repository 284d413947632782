package indicators

import (
	"testing"
	"time"

	"SmartScan/internal/domain/models"
)

func histDay(i int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func equityHist(n int, close, qty float64) []models.EquityRecord {
	out := make([]models.EquityRecord, n)
	for i := range out {
		out[i] = models.EquityRecord{Symbol: "ABC", Date: histDay(i), Close: close, TradedQty: qty}
	}
	return out
}

func TestVolSurgeExactMean(t *testing.T) {
	// 25 entries at 100k; trailing-20 mean is 100k; reference qty 200k.
	in := Inputs{
		Ref:           models.EquityRecord{Symbol: "ABC", Close: 150, TradedQty: 200_000},
		EquityHistory: equityHist(25, 150, 100_000),
	}
	set := Compute(in, DefaultParams())
	if !set.VolSurge.Valid {
		t.Fatalf("expected VolSurge defined")
	}
	if set.VolSurge.Value != 2.0 {
		t.Fatalf("expected VolSurge 2.0, got %v", set.VolSurge.Value)
	}
}

func TestVolSurgeUsesOnlyWindowTail(t *testing.T) {
	// 30 entries: first 10 at huge volume must not affect the 20-entry tail.
	hist := equityHist(10, 100, 9_000_000)
	hist = append(hist, equityHist(20, 100, 50_000)...)
	for i := range hist {
		hist[i].Date = histDay(i)
	}
	in := Inputs{Ref: models.EquityRecord{TradedQty: 100_000}, EquityHistory: hist}
	set := Compute(in, DefaultParams())
	if set.VolSurge.Value != 2.0 {
		t.Fatalf("expected tail-only mean giving 2.0, got %v", set.VolSurge.Value)
	}
}

func TestShortHistoryAllUndefined(t *testing.T) {
	in := Inputs{
		Ref:           models.EquityRecord{Close: 120, TradedQty: 1000},
		EquityHistory: equityHist(9, 100, 1000),
	}
	set := Compute(in, DefaultParams())
	if set.VolSurge.Valid || set.Breakout.Valid || set.RS.Valid {
		t.Fatalf("expected VolSurge, Breakout and RS undefined with 9 entries: %+v", set)
	}
}

func TestBreakoutBoundary(t *testing.T) {
	p := DefaultParams()
	hist := equityHist(55, 100, 1000)

	// close exactly at 0.995 x max must flag.
	set := Compute(Inputs{Ref: models.EquityRecord{Close: 99.5}, EquityHistory: hist}, p)
	if !set.Breakout.Valid || set.Breakout.Value != 1 {
		t.Fatalf("close at proximity boundary should break out: %+v", set.Breakout)
	}

	set = Compute(Inputs{Ref: models.EquityRecord{Close: 99.49}, EquityHistory: hist}, p)
	if !set.Breakout.Valid || set.Breakout.Value != 0 {
		t.Fatalf("close below boundary should not break out: %+v", set.Breakout)
	}
}

func TestBreakoutAboveHigh(t *testing.T) {
	// Reference close 105 against a trailing-55 high of 100.
	set := Compute(Inputs{Ref: models.EquityRecord{Close: 105}, EquityHistory: equityHist(55, 100, 1000)}, DefaultParams())
	if set.Breakout.Value != 1 {
		t.Fatalf("expected breakout flag, got %v", set.Breakout.Value)
	}
}

func TestRSAgainstMedian(t *testing.T) {
	// Odd window within 30: 15 entries at close 100 -> median 100.
	set := Compute(Inputs{Ref: models.EquityRecord{Close: 110}, EquityHistory: equityHist(15, 100, 1000)}, DefaultParams())
	if !set.RS.Valid || set.RS.Value != 1.1 {
		t.Fatalf("expected RS 1.1, got %+v", set.RS)
	}
}

func TestDeliveryPercentZeroTraded(t *testing.T) {
	in := Inputs{
		Ref:      models.EquityRecord{Close: 100},
		Delivery: &models.DeliveryRecord{DeliveredQty: 500, TradedQty: 0},
	}
	set := Compute(in, DefaultParams())
	if set.DeliveryPct.Valid {
		t.Fatalf("delivery percent must be undefined when traded qty is zero")
	}
}

func TestDeliverySurge(t *testing.T) {
	hist := make([]models.DeliveryRecord, 10)
	for i := range hist {
		hist[i] = models.DeliveryRecord{Symbol: "ABC", Date: histDay(i), DeliveredQty: 400, TradedQty: 1000}
	}
	in := Inputs{
		Ref:             models.EquityRecord{Close: 100},
		Delivery:        &models.DeliveryRecord{DeliveredQty: 600, TradedQty: 1000},
		DeliveryHistory: hist,
	}
	set := Compute(in, DefaultParams())
	if !set.DeliverySurge.Valid || set.DeliverySurge.Value != 1.5 {
		t.Fatalf("expected DeliverySurge 1.5, got %+v", set.DeliverySurge)
	}
	if !set.DeliveryPct.Valid || set.DeliveryPct.Value != 0.6 {
		t.Fatalf("expected DeliveryPct 0.6, got %+v", set.DeliveryPct)
	}
}

func TestDeliverySurgeMinSamples(t *testing.T) {
	hist := make([]models.DeliveryRecord, 7)
	for i := range hist {
		hist[i] = models.DeliveryRecord{DeliveredQty: 400, Date: histDay(i)}
	}
	in := Inputs{
		Ref:             models.EquityRecord{Close: 100},
		Delivery:        &models.DeliveryRecord{DeliveredQty: 600, TradedQty: 1000},
		DeliveryHistory: hist,
	}
	if set := Compute(in, DefaultParams()); set.DeliverySurge.Valid {
		t.Fatalf("expected DeliverySurge undefined with 7 entries")
	}
}

func TestNoDeliveryRecord(t *testing.T) {
	set := Compute(Inputs{Ref: models.EquityRecord{Close: 100}, EquityHistory: equityHist(30, 100, 1000)}, DefaultParams())
	if set.DeliveryPct.Valid || set.DeliverySurge.Valid {
		t.Fatalf("delivery metrics must be undefined without a delivery record")
	}
}

func TestMedianEvenLength(t *testing.T) {
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}
