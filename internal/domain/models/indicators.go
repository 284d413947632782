package models

// Metric is an indicator value that may be undefined when the trailing
// history is too short. Undefined metrics contribute zero to the composite
// score and render as "NA".
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// MetricOf returns a defined metric.
func MetricOf(v float64) Metric { return Metric{Value: v, Valid: true} }

// Undefined returns an undefined metric.
func Undefined() Metric { return Metric{} }

// Or returns the metric value, or def when undefined.
func (m Metric) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

// IndicatorSet holds all per-symbol derived indicators for one run.
// Breakout and LongBuildUp are 0/1 flags; they stay Metrics so "not enough
// history" and "flag is zero" remain distinguishable for rendering.
type IndicatorSet struct {
	VolSurge      Metric `json:"vol_surge"`
	DeliverySurge Metric `json:"delivery_surge"`
	DeliveryPct   Metric `json:"delivery_pct"`
	Breakout      Metric `json:"breakout"`
	RS            Metric `json:"rs"`
	OIChgPct      Metric `json:"oi_chg_pct"`
	PxChgPct      Metric `json:"px_chg_pct"`
	LongBuildUp   Metric `json:"long_build_up"`
}

// DerivativesSignal is the per-symbol outcome of joining two futures
// sessions on the front-month contract.
type DerivativesSignal struct {
	Symbol      string
	OIChgPct    Metric
	PxChgPct    Metric
	LongBuildUp Metric
}
