package nse

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/internal/service/ratelimit"
	pkghttp "SmartScan/pkg/http"
	"SmartScan/pkg/logger"
)

// Option configures Client.
type Option func(*Client)

// Client fetches end-of-day archives from the NSE public site.
// A day with no published archive (trading holiday, not yet released)
// is reported as (nil, nil), not as an error.
type Client struct {
	http        *pkghttp.Client
	baseURL     string
	limiter     *ratelimit.Limiter
	maxRPS      float64
	maxAttempts int
	backoffMin  time.Duration
	backoffMax  time.Duration
	logger      *logger.Logger
}

// NewClient creates an NSE archive client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     "https://archives.nseindia.com",
		limiter:     ratelimit.New(),
		maxRPS:      2,
		maxAttempts: 3,
		backoffMin:  500 * time.Millisecond,
		backoffMax:  5 * time.Second,
		logger:      logger.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = pkghttp.NewClient(
			pkghttp.WithTimeout(30*time.Second),
			pkghttp.WithHeader("User-Agent", "Mozilla/5.0"),
			pkghttp.WithHeader("Referer", "https://www.nseindia.com"),
		)
	}
	return c
}

// WithBaseURL overrides the archive base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *pkghttp.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithRetry sets retry attempts and the backoff range between attempts.
func WithRetry(attempts int, backoffMin, backoffMax time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
		c.backoffMin = backoffMin
		c.backoffMax = backoffMax
	}
}

// WithMaxRPS caps outgoing request rate.
func WithMaxRPS(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.maxRPS = rps
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

// FetchEquityDay downloads and parses the equity bhavcopy for date.
func (c *Client) FetchEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error) {
	data, err := c.fetchZippedCSV(ctx, c.equityURL(date))
	if err != nil {
		return nil, fmt.Errorf("fetch equity bhavcopy: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return ParseEquityCSV(data, date)
}

// FetchDeliveryDay downloads and parses the delivery (MTO) report for date.
func (c *Client) FetchDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error) {
	data, err := c.fetch(ctx, c.mtoURL(date))
	if err != nil {
		return nil, fmt.Errorf("fetch delivery report: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return ParseMTO(data, date)
}

// FetchFuturesDay downloads and parses the derivatives bhavcopy for date.
func (c *Client) FetchFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error) {
	data, err := c.fetchZippedCSV(ctx, c.futuresURL(date))
	if err != nil {
		return nil, fmt.Errorf("fetch futures bhavcopy: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return ParseFuturesCSV(data, date)
}

func (c *Client) equityURL(date time.Time) string {
	return fmt.Sprintf("%s/content/historical/EQUITIES/%d/%s/cm%sbhav.csv.zip",
		c.baseURL, date.Year(), archiveMonth(date), archiveDate(date))
}

func (c *Client) futuresURL(date time.Time) string {
	return fmt.Sprintf("%s/content/historical/DERIVATIVES/%d/%s/fo%sbhav.csv.zip",
		c.baseURL, date.Year(), archiveMonth(date), archiveDate(date))
}

func (c *Client) mtoURL(date time.Time) string {
	return fmt.Sprintf("%s/archives/equities/mto/MTO_%s.DAT",
		c.baseURL, date.Format("20060102"))
}

// archiveDate renders dates the way NSE archive paths expect: 15AUG2025.
func archiveDate(date time.Time) string {
	return strings.ToUpper(date.Format("02Jan2006"))
}

func archiveMonth(date time.Time) string {
	return strings.ToUpper(date.Format("Jan"))
}

// fetch performs a rate-limited GET with bounded retries. A 404 response
// maps to (nil, nil); transient failures are retried and, once attempts
// are exhausted, also reported as absent so a flaky mirror degrades the
// same way a holiday does.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx, "nse", c.maxRPS, c.maxRPS); err != nil {
			return nil, err
		}

		body, status, err := c.http.GetBytes(ctx, url)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusNotFound:
			return nil, nil
		case status >= 200 && status < 300:
			return body, nil
		default:
			lastErr = fmt.Errorf("unexpected status %d", status)
		}

		c.logger.Warn("nse fetch retry",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.Error(lastErr),
		)

		if attempt < c.maxAttempts {
			backoff := c.backoffMin * time.Duration(attempt)
			if c.backoffMax > 0 && backoff > c.backoffMax {
				backoff = c.backoffMax
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	c.logger.Warn("nse fetch exhausted retries, treating day as absent",
		logger.String("url", url),
		logger.Error(lastErr),
	)
	return nil, nil
}

func (c *Client) fetchZippedCSV(ctx context.Context, url string) ([]byte, error) {
	data, err := c.fetch(ctx, url)
	if err != nil || data == nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("empty zip archive")
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open archive entry: %w", err)
	}
	defer rc.Close()

	csvData, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive entry: %w", err)
	}
	return csvData, nil
}
