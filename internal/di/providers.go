package di

import (
	"context"
	"fmt"
	"time"

	"SmartScan/internal/domain/repository"
	"SmartScan/internal/handler/api"
	internalrepo "SmartScan/internal/repository"
	"SmartScan/internal/service/nse"
	"SmartScan/internal/service/telegram"
	"SmartScan/internal/services/derivatives"
	"SmartScan/internal/services/indicators"
	"SmartScan/internal/services/screen"
	"SmartScan/internal/usecase"
	"SmartScan/pkg/cache"
	pkgch "SmartScan/pkg/clickhouse"
	"SmartScan/pkg/config"
	pkghttp "SmartScan/pkg/http"
	pkgkafka "SmartScan/pkg/kafka"
	applogger "SmartScan/pkg/logger"
	"SmartScan/pkg/metrics"
	"SmartScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the configured cache backend, or nil for "none".
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		opts := []cache.MemoryOption{}
		if cfg.Cache.Memory.MaxSize > 0 {
			opts = append(opts, cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize))
		}
		return cache.NewMemoryCache(opts...), nil
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive backend is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArchiveStore creates the raw-day archive store on top of
// ClickHouse, ensuring the schema.
func ProvideArchiveStore(client *pkgch.Client) (repository.ArchiveStore, error) {
	if client == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := internalrepo.NewClickHouseStore(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("archive store: %w", err)
	}
	return store, nil
}

// ProvideDataSource chains the NSE client with the archive and cache
// decorators: cache in front, archive behind it, exchange last.
func ProvideDataSource(
	cfg *config.Config,
	store repository.ArchiveStore,
	cacheSvc cache.Service,
	log *applogger.Logger,
) repository.DataSource {
	httpClient := pkghttp.NewClient(
		pkghttp.WithTimeout(cfg.NSE.Timeout),
		pkghttp.WithHeader("User-Agent", cfg.NSE.UserAgent),
		pkghttp.WithHeader("Referer", cfg.NSE.Referer),
	)

	var src repository.DataSource = nse.NewClient(
		nse.WithBaseURL(cfg.NSE.BaseURL),
		nse.WithHTTPClient(httpClient),
		nse.WithRetry(cfg.NSE.Retry.MaxAttempts, cfg.NSE.Retry.BackoffMin, cfg.NSE.Retry.BackoffMax),
		nse.WithMaxRPS(cfg.NSE.MaxRPS),
		nse.WithLogger(log),
	)

	if store != nil {
		src = internalrepo.NewArchiveSource(src, store, log)
	}
	if cacheSvc != nil {
		src = internalrepo.NewCachedSource(src, cacheSvc, cfg.Cache.TTL, cfg.Cache.MissTTL, log)
	}
	return src
}

// ProvideNotifier creates the Telegram notifier, or nil when disabled.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) repository.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	httpClient := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Telegram.Timeout))
	return telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID,
		telegram.WithAPIURL(cfg.Telegram.APIBase),
		telegram.WithHTTPClient(httpClient),
		telegram.WithMaxLength(cfg.Telegram.MaxLength),
		telegram.WithLogger(log),
	)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideResultPublisher creates the Kafka result publisher, or nil when
// the producer is disabled.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ResultPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideScanner creates the scan use case with config-mapped policy.
func ProvideScanner(
	src repository.DataSource,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	s := &cfg.Scan
	params := usecase.ScanParams{
		EquityWindow:   s.EquityWindow,
		DeliveryWindow: s.DeliveryWindow,
		LookbackDays:   s.LookbackDays,
		TopN:           s.TopN,
		Indicators: indicators.Params{
			VolumeWindow:       s.VolumeWindow,
			VolumeMinSamples:   s.VolumeMinSamples,
			DeliveryWindow:     s.DeliveryAvgWindow,
			DeliveryMinSamples: s.DeliveryMinSamples,
			BreakoutWindow:     s.BreakoutWindow,
			BreakoutMinSamples: s.BreakoutMinSamples,
			BreakoutProximity:  s.BreakoutProximity,
			RSWindow:           s.RSWindow,
			RSMinSamples:       s.RSMinSamples,
		},
		Derivatives: derivatives.Params{
			ForwardBound:  s.Derivatives.ForwardBound,
			BackwardBound: s.Derivatives.BackwardBound,
			UniverseBound: s.Derivatives.UniverseBound,
			OIChangeMin:   s.Derivatives.OIChangeMin,
			PxChangeMin:   s.Derivatives.PxChangeMin,
		},
		Filter: screen.FilterParams{
			PriceFloor:     s.PriceFloor,
			LiquidityFloor: s.LiquidityFloor,
		},
		Weights: screen.Weights{
			VolSurge:      s.Weights.VolSurge,
			DeliverySurge: s.Weights.DeliverySurge,
			LongBuildUp:   s.Weights.LongBuildUp,
			Breakout:      s.Weights.Breakout,
			RS:            s.Weights.RS,
			ClipLo:        0,
			ClipHi:        s.Weights.ClipHi,
		},
	}
	return usecase.NewScanner(src, m, log, params)
}

// ProvideResultHolder creates the latest-result holder.
func ProvideResultHolder() *usecase.ResultHolder {
	return usecase.NewResultHolder()
}

// ProvideStreamHub creates the websocket fan-out hub.
func ProvideStreamHub(log *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(log)
}

// ProvideHandler creates the HTTP handler surface.
func ProvideHandler(
	scanner *usecase.Scanner,
	holder *usecase.ResultHolder,
	hub *api.StreamHub,
	store repository.ArchiveStore,
	log *applogger.Logger,
) pkghttp.Handler {
	return api.NewScanHandler(scanner, holder, hub, store, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	scanner *usecase.Scanner,
	holder *usecase.ResultHolder,
	hub *api.StreamHub,
	notifier repository.Notifier,
	publisher repository.ResultPublisher,
	store repository.ArchiveStore,
	cacheSvc cache.Service,
	handler pkghttp.Handler,
) *server.App {
	return server.New(cfg, log, scanner, holder, hub, notifier, publisher, store, cacheSvc, handler)
}
