package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SmartScan/internal/domain/models"
	"SmartScan/pkg/clickhouse"
)

// ClickHouseStore persists raw per-day feed rows in ClickHouse. One table
// per feed, keyed by (date, symbol). A day absent from a table reads back
// as nil so the decorator falls through to the exchange.
type ClickHouseStore struct {
	client *clickhouse.Client
}

var archiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS eod_equity (
		date Date,
		symbol String,
		close Float64,
		traded_qty Float64,
		traded_value Float64
	) ENGINE = ReplacingMergeTree ORDER BY (date, symbol)`,
	`CREATE TABLE IF NOT EXISTS eod_delivery (
		date Date,
		symbol String,
		delivered_qty Float64,
		traded_qty Float64
	) ENGINE = ReplacingMergeTree ORDER BY (date, symbol)`,
	`CREATE TABLE IF NOT EXISTS eod_futures (
		date Date,
		symbol String,
		instrument String,
		expiry Date,
		close Float64,
		open_interest Float64
	) ENGINE = ReplacingMergeTree ORDER BY (date, symbol, expiry)`,
}

// NewClickHouseStore creates the archive store and ensures its schema.
func NewClickHouseStore(ctx context.Context, client *clickhouse.Client) (*ClickHouseStore, error) {
	if err := client.InitSchema(ctx, archiveSchema); err != nil {
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return &ClickHouseStore{client: client}, nil
}

func (s *ClickHouseStore) LoadEquityDay(ctx context.Context, date time.Time) ([]models.EquityRecord, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT symbol, close, traded_qty, traded_value FROM eod_equity WHERE date = ? ORDER BY symbol`,
		dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("load equity day: %w", err)
	}
	defer rows.Close()

	var records []models.EquityRecord
	for rows.Next() {
		rec := models.EquityRecord{Date: date}
		if err := rows.Scan(&rec.Symbol, &rec.Close, &rec.TradedQty, &rec.TradedValue); err != nil {
			return nil, fmt.Errorf("scan equity row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load equity day: %w", err)
	}
	return records, nil
}

func (s *ClickHouseStore) SaveEquityDay(ctx context.Context, date time.Time, recs []models.EquityRecord) error {
	return s.saveBatch(ctx, `INSERT INTO eod_equity (date, symbol, close, traded_qty, traded_value)`,
		len(recs), func(stmt *sql.Stmt, i int) error {
			r := recs[i]
			_, err := stmt.ExecContext(ctx, dateArg(date), r.Symbol, r.Close, r.TradedQty, r.TradedValue)
			return err
		})
}

func (s *ClickHouseStore) LoadDeliveryDay(ctx context.Context, date time.Time) ([]models.DeliveryRecord, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT symbol, delivered_qty, traded_qty FROM eod_delivery WHERE date = ? ORDER BY symbol`,
		dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("load delivery day: %w", err)
	}
	defer rows.Close()

	var records []models.DeliveryRecord
	for rows.Next() {
		rec := models.DeliveryRecord{Date: date}
		if err := rows.Scan(&rec.Symbol, &rec.DeliveredQty, &rec.TradedQty); err != nil {
			return nil, fmt.Errorf("scan delivery row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load delivery day: %w", err)
	}
	return records, nil
}

func (s *ClickHouseStore) SaveDeliveryDay(ctx context.Context, date time.Time, recs []models.DeliveryRecord) error {
	return s.saveBatch(ctx, `INSERT INTO eod_delivery (date, symbol, delivered_qty, traded_qty)`,
		len(recs), func(stmt *sql.Stmt, i int) error {
			r := recs[i]
			_, err := stmt.ExecContext(ctx, dateArg(date), r.Symbol, r.DeliveredQty, r.TradedQty)
			return err
		})
}

func (s *ClickHouseStore) LoadFuturesDay(ctx context.Context, date time.Time) ([]models.FuturesRecord, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT symbol, instrument, expiry, close, open_interest FROM eod_futures WHERE date = ? ORDER BY symbol, expiry`,
		dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("load futures day: %w", err)
	}
	defer rows.Close()

	var records []models.FuturesRecord
	for rows.Next() {
		rec := models.FuturesRecord{Date: date}
		if err := rows.Scan(&rec.Symbol, &rec.Instrument, &rec.Expiry, &rec.Close, &rec.OpenInterest); err != nil {
			return nil, fmt.Errorf("scan futures row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load futures day: %w", err)
	}
	return records, nil
}

func (s *ClickHouseStore) SaveFuturesDay(ctx context.Context, date time.Time, recs []models.FuturesRecord) error {
	return s.saveBatch(ctx, `INSERT INTO eod_futures (date, symbol, instrument, expiry, close, open_interest)`,
		len(recs), func(stmt *sql.Stmt, i int) error {
			r := recs[i]
			_, err := stmt.ExecContext(ctx, dateArg(date), r.Symbol, r.Instrument, dateArg(r.Expiry), r.Close, r.OpenInterest)
			return err
		})
}

// Health reports store connectivity.
func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close closes the underlying connection pool.
func (s *ClickHouseStore) Close() error {
	return s.client.Close()
}

// saveBatch inserts rows through a prepared statement inside one
// transaction, which clickhouse-go converts into a native batch.
func (s *ClickHouseStore) saveBatch(ctx context.Context, insert string, n int, bind func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := bind(stmt, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append batch row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func dateArg(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
