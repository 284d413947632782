package repository

import (
	"context"
	"time"

	"SmartScan/internal/domain/models"
)

// DataSource yields per-day structured records for the three EOD feeds.
// A (nil, nil) return signals non-availability for that date: holiday, feed
// gap, or a transient failure already exhausted by the source's own retry
// policy. The core never distinguishes those cases.
type DataSource interface {
	FetchEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error)
	FetchDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error)
	FetchFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error)
}

// Notifier delivers a rendered message downstream, best-effort. Failures
// are logged by the implementation and never propagate into the scan.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// ResultPublisher pushes a completed scan result onto an outbound channel
// (message bus, socket fan-out).
type ResultPublisher interface {
	Publish(ctx context.Context, res *models.RankedResult) error
	Close() error
}

// ArchiveStore persists raw per-day feed rows so history rebuilds do not
// refetch the exchange archive. Computed results are never stored.
type ArchiveStore interface {
	LoadEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error)
	SaveEquityDay(ctx context.Context, date time.Time, recs []models.EquityRecord) error
	LoadDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error)
	SaveDeliveryDay(ctx context.Context, date time.Time, recs []models.DeliveryRecord) error
	LoadFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error)
	SaveFuturesDay(ctx context.Context, date time.Time, recs []models.FuturesRecord) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational measurements for a scan run.
type Metrics interface {
	RecordScanDuration(seconds float64)
	RecordScanOutcome(outcome string)
	RecordDayFetched(feed string, available bool)
	RecordFetchError(feed string)
	RecordCandidates(eligible, ranked int)
	RecordReferenceDate(date time.Time)
}
