package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SmartScan/internal/domain/repository"
	"SmartScan/internal/handler/api"
	"SmartScan/internal/service/telegram"
	"SmartScan/internal/usecase"
	"SmartScan/pkg/cache"
	"SmartScan/pkg/config"
	xhttp "SmartScan/pkg/http"
	applogger "SmartScan/pkg/logger"
)

// App encapsulates the entire application lifecycle: the daily scan
// schedule, the HTTP API, and the outbound channels.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	scanner   *usecase.Scanner
	holder    *usecase.ResultHolder
	hub       *api.StreamHub
	notifier  repository.Notifier
	publisher repository.ResultPublisher
	store     repository.ArchiveStore
	cache     cache.Service
	location  *time.Location

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance. notifier, publisher, store and cacheSvc
// may be nil when the corresponding backend is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scanner *usecase.Scanner,
	holder *usecase.ResultHolder,
	hub *api.StreamHub,
	notifier repository.Notifier,
	publisher repository.ResultPublisher,
	store repository.ArchiveStore,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	loc, err := time.LoadLocation(cfg.Scan.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using UTC", applogger.String("timezone", cfg.Scan.Timezone))
		loc = time.UTC
	}
	return &App{
		cfg:         cfg,
		logger:      log,
		scanner:     scanner,
		holder:      holder,
		hub:         hub,
		notifier:    notifier,
		publisher:   publisher,
		store:       store,
		cache:       cacheSvc,
		location:    loc,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.cfg.Scan.RunOnStart {
		go a.RunScan(ctx)
	}
	go a.scheduleLoop(ctx)
	a.logger.Info("scheduler armed",
		applogger.String("schedule", a.cfg.Scan.Schedule),
		applogger.String("timezone", a.location.String()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// scheduleLoop fires RunScan at the configured wall-clock time every day.
func (a *App) scheduleLoop(ctx context.Context) {
	for {
		next := nextRun(time.Now().In(a.location), a.cfg.Scan.Schedule)
		a.logger.Info("next scheduled scan", applogger.String("at", next.Format(time.RFC3339)))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			a.RunScan(ctx)
		}
	}
}

// nextRun returns the next occurrence of the HH:MM schedule after now.
func nextRun(now time.Time, schedule string) time.Time {
	at, err := time.Parse("15:04", schedule)
	if err != nil {
		// Validated at config load; fall back to one day out.
		return now.Add(24 * time.Hour)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunScan executes one full scan round: notice, scan, fan-out. Failures
// are reported downstream and never crash the process.
func (a *App) RunScan(ctx context.Context) {
	a.notify(ctx, telegram.RenderStarted())

	res, err := a.scanner.Run(ctx, time.Now().In(a.location))
	if err != nil {
		a.logger.Error("scheduled scan failed", applogger.Error(err))
		a.notify(ctx, telegram.RenderFailure(err))
		return
	}

	a.holder.Set(res)
	a.hub.Broadcast(res)

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, res); err != nil {
			a.logger.Warn("result publish failed", applogger.Error(err))
		}
	}

	a.notify(ctx, telegram.RenderResult(*res))
}

func (a *App) notify(ctx context.Context, text string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Send(ctx, text); err != nil {
		a.logger.Warn("notification failed", applogger.Error(err))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
		}
	}

	a.hub.Close()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("archive close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
