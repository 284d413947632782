package indicators

import (
	"SmartScan/internal/domain/models"
)

// Params holds the window lengths and minimum-sample policies for the
// equity-side indicators. All windows take the tail of the ascending-date
// history, i.e. the entries immediately preceding the reference day.
type Params struct {
	VolumeWindow       int
	VolumeMinSamples   int
	DeliveryWindow     int
	DeliveryMinSamples int
	BreakoutWindow     int
	BreakoutMinSamples int
	BreakoutProximity  float64
	RSWindow           int
	RSMinSamples       int
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		VolumeWindow:       20,
		VolumeMinSamples:   10,
		DeliveryWindow:     20,
		DeliveryMinSamples: 8,
		BreakoutWindow:     55,
		BreakoutMinSamples: 10,
		BreakoutProximity:  0.995,
		RSWindow:           30,
		RSMinSamples:       10,
	}
}

// Inputs is everything one symbol contributes to indicator computation.
// Histories are ascending by date and strictly precede the reference day.
// Delivery is the record matched to the reference day by nearest prior
// available date, nil when none exists.
type Inputs struct {
	Ref             models.EquityRecord
	EquityHistory   []models.EquityRecord
	Delivery        *models.DeliveryRecord
	DeliveryHistory []models.DeliveryRecord
}

// Compute derives the equity-side indicators for one symbol. Fewer history
// entries than an indicator's minimum yields an undefined metric, never an
// error; derivatives metrics are filled in separately by the caller.
func Compute(in Inputs, p Params) models.IndicatorSet {
	var set models.IndicatorSet

	closes := make([]float64, len(in.EquityHistory))
	qtys := make([]float64, len(in.EquityHistory))
	for i, r := range in.EquityHistory {
		closes[i] = r.Close
		qtys[i] = r.TradedQty
	}

	if len(qtys) >= p.VolumeMinSamples {
		if avg := mean(tail(qtys, p.VolumeWindow)); avg > 0 {
			set.VolSurge = models.MetricOf(in.Ref.TradedQty / avg)
		}
	}

	if len(closes) >= p.BreakoutMinSamples {
		hh := max(tail(closes, p.BreakoutWindow))
		flag := 0.0
		if in.Ref.Close >= p.BreakoutProximity*hh {
			flag = 1
		}
		set.Breakout = models.MetricOf(flag)
	}

	if len(closes) >= p.RSMinSamples {
		if med := median(tail(closes, p.RSWindow)); med > 0 {
			set.RS = models.MetricOf(in.Ref.Close / med)
		}
	}

	if in.Delivery != nil {
		if in.Delivery.TradedQty > 0 {
			set.DeliveryPct = models.MetricOf(in.Delivery.DeliveredQty / in.Delivery.TradedQty)
		}
		if len(in.DeliveryHistory) >= p.DeliveryMinSamples {
			delivered := make([]float64, len(in.DeliveryHistory))
			for i, r := range in.DeliveryHistory {
				delivered[i] = r.DeliveredQty
			}
			if avg := mean(tail(delivered, p.DeliveryWindow)); avg > 0 {
				set.DeliverySurge = models.MetricOf(in.Delivery.DeliveredQty / avg)
			}
		}
	}

	return set
}
