package server

import (
	"context"
	"testing"
	"time"

	"SmartScan/internal/handler/api"
	"SmartScan/pkg/config"
	applogger "SmartScan/pkg/logger"
)

type closeTrackingCache struct {
	closed bool
}

func (c *closeTrackingCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (c *closeTrackingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return nil
}
func (c *closeTrackingCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *closeTrackingCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return false, nil
}
func (c *closeTrackingCache) Close() error {
	c.closed = true
	return nil
}

func TestShutdownClosesCache(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scan.Timezone = "UTC"
	cfg.Server.ShutdownTimeout = time.Second

	cacheSvc := &closeTrackingCache{}
	log := applogger.NewNop()
	app := New(cfg, log, nil, nil, api.NewStreamHub(log), nil, nil, nil, cacheSvc, nil)

	if err := app.shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !cacheSvc.closed {
		t.Fatalf("expected cache to be closed on shutdown")
	}
}

func TestNextRun(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Before the schedule time: fires today.
	now := time.Date(2025, 8, 14, 10, 0, 0, 0, loc)
	next := nextRun(now, "19:30")
	want := time.Date(2025, 8, 14, 19, 30, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}

	// After the schedule time: fires tomorrow.
	now = time.Date(2025, 8, 14, 20, 0, 0, 0, loc)
	next = nextRun(now, "19:30")
	want = time.Date(2025, 8, 15, 19, 30, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}

	// Exactly at the schedule time: fires tomorrow, not immediately again.
	now = time.Date(2025, 8, 14, 19, 30, 0, 0, loc)
	next = nextRun(now, "19:30")
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}
