package repository

import (
	"context"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/internal/domain/repository"
	"SmartScan/pkg/logger"
)

// ArchiveSource is a read-through decorator that serves days from the
// archive store before reaching the exchange, and persists newly fetched
// days. Store failures degrade to the inner source; a scan never fails
// because the archive is down.
type ArchiveSource struct {
	inner  repository.DataSource
	store  repository.ArchiveStore
	logger *logger.Logger
}

// NewArchiveSource creates an archive-backed decorator around src.
func NewArchiveSource(src repository.DataSource, store repository.ArchiveStore, log *logger.Logger) *ArchiveSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &ArchiveSource{inner: src, store: store, logger: log}
}

func (s *ArchiveSource) FetchEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error) {
	return fetchThroughStore(ctx, s, "equity", date,
		s.store.LoadEquityDay, s.inner.FetchEquityDay, s.store.SaveEquityDay)
}

func (s *ArchiveSource) FetchDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error) {
	return fetchThroughStore(ctx, s, "delivery", date,
		s.store.LoadDeliveryDay, s.inner.FetchDeliveryDay, s.store.SaveDeliveryDay)
}

func (s *ArchiveSource) FetchFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error) {
	return fetchThroughStore(ctx, s, "futures", date,
		s.store.LoadFuturesDay, s.inner.FetchFuturesDay, s.store.SaveFuturesDay)
}

func fetchThroughStore[T any](
	ctx context.Context,
	s *ArchiveSource,
	feed string,
	date time.Time,
	load func(context.Context, time.Time) ([]T, error),
	fetch func(context.Context, time.Time) ([]T, error),
	save func(context.Context, time.Time, []T) error,
) ([]T, error) {
	stored, err := load(ctx, date)
	if err != nil {
		s.logger.Warn("archive load failed",
			logger.String("feed", feed),
			logger.String("date", date.Format(cacheDateLayout)),
			logger.Error(err),
		)
	} else if stored != nil {
		return stored, nil
	}

	records, err := fetch(ctx, date)
	if err != nil || records == nil {
		return records, err
	}

	if err := save(ctx, date, records); err != nil {
		s.logger.Warn("archive save failed",
			logger.String("feed", feed),
			logger.String("date", date.Format(cacheDateLayout)),
			logger.Error(err),
		)
	}
	return records, nil
}
