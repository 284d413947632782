package screen

import "SmartScan/internal/domain/models"

// FilterParams restricts the universe to liquid, derivatives-tradable
// symbols. Floors are in currency units.
type FilterParams struct {
	PriceFloor     float64
	LiquidityFloor float64
}

// DefaultFilterParams returns the documented defaults: close at least 100,
// traded value at least 50 crore INR.
func DefaultFilterParams() FilterParams {
	return FilterParams{PriceFloor: 100, LiquidityFloor: 500_000_000}
}

// Eligible is a pure predicate over one reference-day record. The universe
// sub-filter applies only when hasUniverse is true; with no derivatives
// session found at all it is skipped rather than excluding everyone.
func Eligible(rec models.EquityRecord, universe map[string]struct{}, hasUniverse bool, p FilterParams) bool {
	if hasUniverse {
		if _, ok := universe[rec.Symbol]; !ok {
			return false
		}
	}
	if rec.Close < p.PriceFloor {
		return false
	}
	if rec.TradedValue < p.LiquidityFloor {
		return false
	}
	return true
}
