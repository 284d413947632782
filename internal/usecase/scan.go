package usecase

import (
	"context"
	"fmt"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/internal/domain/repository"
	"SmartScan/internal/services/derivatives"
	"SmartScan/internal/services/history"
	"SmartScan/internal/services/indicators"
	"SmartScan/internal/services/screen"
	applogger "SmartScan/pkg/logger"
	"SmartScan/pkg/util"
)

// ScanParams collects every tunable of one scan run.
type ScanParams struct {
	EquityWindow   int
	DeliveryWindow int
	LookbackDays   int
	TopN           int
	Indicators     indicators.Params
	Derivatives    derivatives.Params
	Filter         screen.FilterParams
	Weights        screen.Weights
}

// DefaultScanParams returns the documented defaults: 90-day equity window,
// 45-day delivery window, 7-day resolver lookback, top 5 results.
func DefaultScanParams() ScanParams {
	return ScanParams{
		EquityWindow:   90,
		DeliveryWindow: 45,
		LookbackDays:   7,
		TopN:           5,
		Indicators:     indicators.DefaultParams(),
		Derivatives:    derivatives.DefaultParams(),
		Filter:         screen.DefaultFilterParams(),
		Weights:        screen.DefaultWeights(),
	}
}

// Scanner runs the smart-money pipeline: resolve the reference date, build
// trailing history, derive indicators, merge derivatives signals, filter,
// score and rank. Given frozen DataSource responses the run is a
// deterministic function of the reference date.
type Scanner struct {
	src     repository.DataSource
	metrics repository.Metrics
	logger  *applogger.Logger
	params  ScanParams
}

// NewScanner creates a Scanner. The DataSource is injected so the pipeline
// is testable against a fake.
func NewScanner(src repository.DataSource, metrics repository.Metrics, logger *applogger.Logger, params ScanParams) *Scanner {
	return &Scanner{src: src, metrics: metrics, logger: logger, params: params}
}

// Run executes one scan as of the given calendar date. The only fatal
// outcome is history.ErrNoData from the reference-date resolver; every
// other gap degrades individual indicators to undefined.
func (s *Scanner) Run(ctx context.Context, asof time.Time) (*models.RankedResult, error) {
	return s.RunTop(ctx, asof, s.params.TopN)
}

// RunTop is Run with an explicit result size, used by the on-demand API.
func (s *Scanner) RunTop(ctx context.Context, asof time.Time, topN int) (*models.RankedResult, error) {
	if topN <= 0 {
		topN = s.params.TopN
	}
	start := time.Now()

	refDate, refDay, err := s.resolveReference(ctx, asof)
	if err != nil {
		s.metrics.RecordScanOutcome("no_data")
		return nil, fmt.Errorf("resolve reference date: %w", err)
	}
	s.metrics.RecordReferenceDate(refDate)
	s.logger.Info("reference date resolved",
		applogger.String("date", refDate.Format("2006-01-02")),
		applogger.Int("symbols", len(refDay)))

	eqHist := history.GroupBySymbol(
		history.Window(ctx, refDate, s.params.EquityWindow, s.fetchEquity),
		func(r models.EquityRecord) string { return r.Symbol },
		func(r models.EquityRecord) time.Time { return r.Date },
	)

	delivRef, delivHist := s.buildDelivery(ctx, refDate)

	signals := derivatives.Build(ctx, s.fetchFutures, refDate, s.params.Derivatives)
	if signals == nil {
		s.logger.Warn("derivatives sessions unavailable, positioning signals undefined")
	}
	universe, hasUniverse := derivatives.Universe(ctx, s.fetchFutures, refDate, s.params.Derivatives.UniverseBound)
	if !hasUniverse {
		s.logger.Warn("no derivatives universe found, tradability filter skipped")
	}

	var cands []models.Candidate
	for _, rec := range refDay {
		if !screen.Eligible(rec, universe, hasUniverse, s.params.Filter) {
			continue
		}
		ind := indicators.Compute(indicators.Inputs{
			Ref:             rec,
			EquityHistory:   eqHist[rec.Symbol],
			Delivery:        delivRef[rec.Symbol],
			DeliveryHistory: delivHist[rec.Symbol],
		}, s.params.Indicators)
		if sig, ok := signals[rec.Symbol]; ok {
			ind.OIChgPct = sig.OIChgPct
			ind.PxChgPct = sig.PxChgPct
			ind.LongBuildUp = sig.LongBuildUp
		}
		cands = append(cands, models.Candidate{
			Symbol:      rec.Symbol,
			Close:       rec.Close,
			TradedValue: rec.TradedValue,
			Indicators:  ind,
			Score:       screen.Score(ind, s.params.Weights),
		})
	}

	ranked := screen.Rank(cands, topN)
	s.metrics.RecordCandidates(len(cands), len(ranked))
	s.metrics.RecordScanDuration(time.Since(start).Seconds())
	s.metrics.RecordScanOutcome("ok")
	s.logger.Info("scan complete",
		applogger.Int("eligible", len(cands)),
		applogger.Int("ranked", len(ranked)),
		applogger.Duration("took_ms", time.Since(start)))

	return &models.RankedResult{
		ReferenceDate: refDate,
		GeneratedAt:   time.Now().UTC(),
		Candidates:    ranked,
	}, nil
}

// resolveReference walks back from the as-of day looking for the first date
// with equity data, keeping the fetched day so it is not fetched twice.
// Duplicate (symbol, date) rows are dropped, first record wins.
func (s *Scanner) resolveReference(ctx context.Context, asof time.Time) (time.Time, map[string]models.EquityRecord, error) {
	var dayRecs []models.EquityRecord
	avail := func(ctx context.Context, d time.Time) (bool, error) {
		recs, err := s.fetchEquity(ctx, d)
		if err != nil {
			return false, nil
		}
		dayRecs = recs
		return len(recs) > 0, nil
	}
	refDate, err := history.Resolve(ctx, avail, asof, s.params.LookbackDays)
	if err != nil {
		return time.Time{}, nil, err
	}
	day := make(map[string]models.EquityRecord, len(dayRecs))
	for _, r := range dayRecs {
		if _, dup := day[r.Symbol]; !dup {
			day[r.Symbol] = r
		}
	}
	return refDate, day, nil
}

// buildDelivery assembles the delivery pool: the reference day itself plus
// the trailing window, since delivery dates need not align with equity
// dates. The reference-day record per symbol comes from the nearest
// available delivery date at or before the reference date across the whole
// pool; the surge history is every record strictly before the reference
// date.
func (s *Scanner) buildDelivery(ctx context.Context, refDate time.Time) (map[string]*models.DeliveryRecord, map[string][]models.DeliveryRecord) {
	pool, _ := s.fetchDelivery(ctx, refDate)
	pool = append(pool, history.Window(ctx, refDate, s.params.DeliveryWindow, s.fetchDelivery)...)
	if len(pool) == 0 {
		return nil, nil
	}

	dates := make([]time.Time, 0, len(pool))
	for _, r := range pool {
		dates = append(dates, r.Date)
	}
	matchDate, ok := util.NearestAtOrBefore(refDate, dates)
	if !ok {
		return nil, nil
	}

	ref := make(map[string]*models.DeliveryRecord)
	var past []models.DeliveryRecord
	for _, r := range pool {
		if util.SameDate(r.Date, matchDate) {
			rec := r
			if _, dup := ref[r.Symbol]; !dup {
				ref[r.Symbol] = &rec
			}
		}
		if r.Date.Before(util.DateOnly(refDate)) {
			past = append(past, r)
		}
	}
	hist := history.GroupBySymbol(past,
		func(r models.DeliveryRecord) string { return r.Symbol },
		func(r models.DeliveryRecord) time.Time { return r.Date },
	)
	return ref, hist
}

func (s *Scanner) fetchEquity(ctx context.Context, d time.Time) ([]models.EquityRecord, error) {
	recs, err := s.src.FetchEquityDay(ctx, d)
	s.observe("equity", len(recs), err)
	return recs, err
}

func (s *Scanner) fetchDelivery(ctx context.Context, d time.Time) ([]models.DeliveryRecord, error) {
	recs, err := s.src.FetchDeliveryDay(ctx, d)
	s.observe("delivery", len(recs), err)
	return recs, err
}

func (s *Scanner) fetchFutures(ctx context.Context, d time.Time) ([]models.FuturesRecord, error) {
	recs, err := s.src.FetchFuturesDay(ctx, d)
	s.observe("futures", len(recs), err)
	return recs, err
}

func (s *Scanner) observe(feed string, n int, err error) {
	if err != nil {
		s.metrics.RecordFetchError(feed)
		return
	}
	s.metrics.RecordDayFetched(feed, n > 0)
}
