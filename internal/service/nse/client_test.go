package nse

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func zipBytes(t *testing.T, name string, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFetchEquityDay(t *testing.T) {
	csvData := "SYMBOL,SERIES,CLOSE,TOTTRDQTY,TOTTRDVAL\n" +
		"RELIANCE,EQ,2940.55,1200000,3528660000\n"
	archive := zipBytes(t, "cm14AUG2025bhav.csv", csvData)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/content/historical/EQUITIES/2025/AUG/cm14AUG2025bhav.csv.zip" {
			_, _ = w.Write(archive)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(1, 0, 0), WithMaxRPS(1000))

	records, err := c.FetchEquityDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("fetch equity day: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "RELIANCE" {
		t.Fatalf("unexpected records: %+v", records)
	}

	// A day with no published archive is absent, not an error.
	missing, err := c.FetchEquityDay(context.Background(), testDay.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("fetch missing day: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil records for missing day, got %+v", missing)
	}
}

func TestFetchTreatsExhaustedRetriesAsAbsent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(2, time.Millisecond, time.Millisecond), WithMaxRPS(1000))

	records, err := c.FetchDeliveryDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("fetch delivery day: %v", err)
	}
	if records != nil {
		t.Fatalf("expected nil records after exhausted retries, got %+v", records)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}
