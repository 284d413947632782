package models

import "time"

// Candidate is an eligible, scored symbol on the reference day.
type Candidate struct {
	Symbol      string       `json:"symbol"`
	Close       float64      `json:"close"`
	TradedValue float64      `json:"traded_value"`
	Indicators  IndicatorSet `json:"indicators"`
	Score       float64      `json:"score"`
}

// RankedResult is the final output of one scan: up to N candidates ordered
// by score descending, ties broken by ascending symbol.
type RankedResult struct {
	ReferenceDate time.Time   `json:"reference_date"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Candidates    []Candidate `json:"candidates"`
}

// Empty reports whether the scan produced no candidates after filtering.
// An empty result is an expected outcome, not a failure.
func (r *RankedResult) Empty() bool { return len(r.Candidates) == 0 }
