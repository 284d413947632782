package models

// Requests for scan HTTP endpoints. Defined in domain for consistency and reuse.

type RunScanRequest struct {
	Date string `query:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	Top  int    `query:"top" json:"top" default:"5" validate:"gte=1,lte=25"`
}
