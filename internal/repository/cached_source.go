package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/internal/domain/repository"
	"SmartScan/pkg/cache"
	"SmartScan/pkg/logger"
)

const cacheDateLayout = "2006-01-02"

// cachedDay wraps a day's rows so absent days are cacheable too: a day
// the exchange never published must not be refetched on every history
// rebuild.
type cachedDay[T any] struct {
	Available bool `json:"available"`
	Records   []T  `json:"records,omitempty"`
}

// CachedSource is a read-through cache decorator over a DataSource. Whole
// days are cached under feed-qualified keys. Cache failures degrade to
// the inner source.
type CachedSource struct {
	inner   repository.DataSource
	cache   cache.Service
	ttl     time.Duration
	missTTL time.Duration
	logger  *logger.Logger
}

// NewCachedSource creates a caching decorator around src.
func NewCachedSource(src repository.DataSource, c cache.Service, ttl, missTTL time.Duration, log *logger.Logger) *CachedSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedSource{
		inner:   src,
		cache:   c,
		ttl:     ttl,
		missTTL: missTTL,
		logger:  log,
	}
}

func (s *CachedSource) FetchEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error) {
	return fetchThroughCache(ctx, s, "equity", date, s.inner.FetchEquityDay)
}

func (s *CachedSource) FetchDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error) {
	return fetchThroughCache(ctx, s, "delivery", date, s.inner.FetchDeliveryDay)
}

func (s *CachedSource) FetchFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error) {
	return fetchThroughCache(ctx, s, "futures", date, s.inner.FetchFuturesDay)
}

func fetchThroughCache[T any](
	ctx context.Context,
	s *CachedSource,
	feed string,
	date time.Time,
	fetch func(context.Context, time.Time) ([]T, error),
) ([]T, error) {
	key := fmt.Sprintf("eod:%s:%s", feed, date.Format(cacheDateLayout))

	var day cachedDay[T]
	err := s.cache.Get(ctx, key, &day)
	if err == nil {
		if !day.Available {
			return nil, nil
		}
		return day.Records, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}

	records, err := fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	entry := cachedDay[T]{Available: records != nil, Records: records}
	ttl := s.ttl
	if !entry.Available {
		ttl = s.missTTL
	}
	if err := s.cache.Set(ctx, key, entry, ttl); err != nil {
		s.logger.Warn("cache write failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}
	return records, nil
}
