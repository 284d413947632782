package screen

import "SmartScan/internal/domain/models"

// Weights blend the indicators into one composite value. Surge ratios and
// relative strength are clipped to [ClipLo, ClipHi] to bound the influence
// of extreme outliers; undefined indicators contribute zero.
type Weights struct {
	VolSurge      float64
	DeliverySurge float64
	LongBuildUp   float64
	Breakout      float64
	RS            float64
	ClipLo        float64
	ClipHi        float64
}

// DefaultWeights returns the documented blend. The resulting score lies in
// [0, 3.35].
func DefaultWeights() Weights {
	return Weights{
		VolSurge:      0.35,
		DeliverySurge: 0.25,
		LongBuildUp:   0.20,
		Breakout:      0.15,
		RS:            0.05,
		ClipLo:        0,
		ClipHi:        5,
	}
}

// Score computes the composite value for one indicator set.
func Score(ind models.IndicatorSet, w Weights) float64 {
	return w.VolSurge*clip(ind.VolSurge.Or(0), w.ClipLo, w.ClipHi) +
		w.DeliverySurge*clip(ind.DeliverySurge.Or(0), w.ClipLo, w.ClipHi) +
		w.LongBuildUp*ind.LongBuildUp.Or(0) +
		w.Breakout*ind.Breakout.Or(0) +
		w.RS*clip(ind.RS.Or(0), w.ClipLo, w.ClipHi)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
