package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"SmartScan/internal/domain/models"
	"SmartScan/internal/domain/repository"
	"SmartScan/internal/services/history"
	"SmartScan/internal/usecase"
	pkghttp "SmartScan/pkg/http"
	"SmartScan/pkg/logger"
)

// ScanHandler serves scan results and on-demand scan runs.
type ScanHandler struct {
	scanner *usecase.Scanner
	holder  *usecase.ResultHolder
	hub     *StreamHub
	store   repository.ArchiveStore
	logger  *logger.Logger
}

// NewScanHandler creates the scan API handler. store may be nil when the
// archive backend is disabled.
func NewScanHandler(
	scanner *usecase.Scanner,
	holder *usecase.ResultHolder,
	hub *StreamHub,
	store repository.ArchiveStore,
	log *logger.Logger,
) *ScanHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ScanHandler{
		scanner: scanner,
		holder:  holder,
		hub:     hub,
		store:   store,
		logger:  log,
	}
}

// RegisterRoutes registers scan endpoints.
func (h *ScanHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/ws/scans", h.hub.Handle)

	api := e.Group("/api")
	api.GET("/scan/latest", h.Latest)
	api.POST("/scan/run", h.Run)
}

// Health reports process liveness and archive connectivity.
func (h *ScanHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		status["archive"] = "up"
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["archive"] = "down"
		}
	}
	return pkghttp.SuccessResponse(c, status)
}

// Latest returns the most recent completed scan result.
func (h *ScanHandler) Latest(c echo.Context) error {
	res := h.holder.Latest()
	if res == nil {
		return pkghttp.NotFoundResponse(c, "no scan has completed yet")
	}
	return pkghttp.SuccessResponse(c, res)
}

// Run executes a scan on demand. Without a date it scans as of today.
func (h *ScanHandler) Run(c echo.Context) error {
	req := new(models.RunScanRequest)
	if msg := pkghttp.ReadAndValidateRequest(c, req); msg != nil {
		return pkghttp.BadRequestResponse(c, msg)
	}

	asof := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return pkghttp.BadRequestResponse(c, "date must be YYYY-MM-DD")
		}
		asof = parsed
	}

	res, err := h.scanner.RunTop(c.Request().Context(), asof, req.Top)
	if err != nil {
		if errors.Is(err, history.ErrNoData) {
			return pkghttp.AppErrorResponse(c,
				pkghttp.NewAppError("no_data", "no trading session found near the requested date", http.StatusUnprocessableEntity))
		}
		h.logger.Error("on-demand scan failed", logger.Error(err))
		return pkghttp.InternalServerErrorResponse(c)
	}

	h.holder.Set(res)
	h.hub.Broadcast(res)
	return pkghttp.SuccessResponse(c, res)
}
