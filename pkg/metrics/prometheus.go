package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scanDuration  prometheus.Histogram
	scansTotal    *prometheus.CounterVec
	daysFetched   *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	candidates    *prometheus.GaugeVec
	referenceDate prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartscan_scan_duration_seconds",
				Help:    "Duration of a full scan run in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartscan_scans_total",
				Help: "Total scan runs by outcome",
			},
			[]string{"outcome"},
		),
		daysFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartscan_days_fetched_total",
				Help: "Archive days fetched per feed and availability",
			},
			[]string{"feed", "available"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartscan_fetch_errors_total",
				Help: "Fetch errors per feed",
			},
			[]string{"feed"},
		),
		candidates: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartscan_candidates",
				Help: "Candidate counts of the last scan",
			},
			[]string{"stage"},
		),
		referenceDate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartscan_reference_date_seconds",
				Help: "Resolved reference date of the last scan as unix time",
			},
		),
	}
}

// RecordScanDuration records the duration of a scan run.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}

// RecordScanOutcome counts a finished run by outcome.
func (r *Recorder) RecordScanOutcome(outcome string) {
	r.scansTotal.WithLabelValues(outcome).Inc()
}

// RecordDayFetched counts one archive-day fetch per feed.
func (r *Recorder) RecordDayFetched(feed string, available bool) {
	v := "no"
	if available {
		v = "yes"
	}
	r.daysFetched.WithLabelValues(feed, v).Inc()
}

// RecordFetchError counts a feed fetch error.
func (r *Recorder) RecordFetchError(feed string) {
	r.fetchErrors.WithLabelValues(feed).Inc()
}

// RecordCandidates records last-scan candidate counts per stage.
func (r *Recorder) RecordCandidates(eligible, ranked int) {
	r.candidates.WithLabelValues("eligible").Set(float64(eligible))
	r.candidates.WithLabelValues("ranked").Set(float64(ranked))
}

// RecordReferenceDate records the resolved reference date.
func (r *Recorder) RecordReferenceDate(date time.Time) {
	r.referenceDate.Set(float64(date.Unix()))
}
