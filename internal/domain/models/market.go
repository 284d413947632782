package models

import "time"

// EquityRecord is one regular-series (EQ) cash-market row from the daily
// equity bhavcopy. At most one record exists per (symbol, date).
type EquityRecord struct {
	Symbol      string
	Date        time.Time
	Close       float64
	TradedQty   float64
	TradedValue float64
}

// DeliveryRecord is one row from the daily MTO delivery report. Delivery
// dates need not align with equity dates; callers match by nearest prior day.
type DeliveryRecord struct {
	Symbol       string
	Date         time.Time
	DeliveredQty float64
	TradedQty    float64
}

// FuturesRecord is one row from the derivatives bhavcopy. Several expiries
// may exist per (symbol, date); only the front month participates in signals.
type FuturesRecord struct {
	Symbol       string
	Date         time.Time
	Instrument   string
	Expiry       time.Time
	Close        float64
	OpenInterest float64
}

// InstrumentStockFuture is the only instrument kind used for positioning
// signals and the tradable-universe filter.
const InstrumentStockFuture = "FUTSTK"
