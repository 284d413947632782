package nse

import (
	"testing"
	"time"
)

var testDay = time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)

func TestParseEquityCSVFiltersSeries(t *testing.T) {
	data := []byte("SYMBOL,SERIES,OPEN,HIGH,LOW,CLOSE,LAST,PREVCLOSE,TOTTRDQTY,TOTTRDVAL,TIMESTAMP\n" +
		"RELIANCE,EQ,2900,2950,2890,2940.55,2941,2898,1200000,3528660000,14-AUG-2025\n" +
		"SGBMAY29,GB,7400,7400,7400,7400,7400,7400,10,74000,14-AUG-2025\n" +
		"TCS,EQ,4100,4150,4090,4120.10,4119,4105,800000,3296080000,14-AUG-2025\n")

	records, err := ParseEquityCSV(data, testDay)
	if err != nil {
		t.Fatalf("parse equity csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 EQ records, got %d", len(records))
	}
	if records[0].Symbol != "RELIANCE" {
		t.Fatalf("expected RELIANCE, got %s", records[0].Symbol)
	}
	if records[0].Close != 2940.55 {
		t.Fatalf("expected close 2940.55, got %v", records[0].Close)
	}
	if records[0].TradedQty != 1200000 {
		t.Fatalf("expected traded qty 1200000, got %v", records[0].TradedQty)
	}
	if records[0].TradedValue != 3528660000 {
		t.Fatalf("expected traded value 3528660000, got %v", records[0].TradedValue)
	}
	if !records[0].Date.Equal(testDay) {
		t.Fatalf("expected date %v, got %v", testDay, records[0].Date)
	}
}

func TestParseEquityCSVSkipsBadRows(t *testing.T) {
	data := []byte("SYMBOL,SERIES,CLOSE,TOTTRDQTY,TOTTRDVAL\n" +
		"GOOD,EQ,100.5,1000,100500\n" +
		"BAD,EQ,not-a-number,1000,100500\n")

	records, err := ParseEquityCSV(data, testDay)
	if err != nil {
		t.Fatalf("parse equity csv: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "GOOD" {
		t.Fatalf("expected only GOOD row, got %+v", records)
	}
}

func TestParseEquityCSVMissingColumn(t *testing.T) {
	data := []byte("SYMBOL,SERIES,CLOSE\nX,EQ,10\n")
	if _, err := ParseEquityCSV(data, testDay); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestParseFuturesCSV(t *testing.T) {
	data := []byte("INSTRUMENT,SYMBOL,EXPIRY_DT,STRIKE_PR,OPTION_TYP,OPEN,HIGH,LOW,CLOSE,OPEN_INT,TIMESTAMP\n" +
		"FUTSTK,RELIANCE,28-Aug-2025,0,XX,2940,2960,2930,2945.20,5400000,14-AUG-2025\n" +
		"FUTSTK,RELIANCE,25-Sep-2025,0,XX,2950,2970,2940,2955.00,1200000,14-AUG-2025\n" +
		"OPTSTK,RELIANCE,28-Aug-2025,3000,CE,20,25,18,22.50,900000,14-AUG-2025\n")

	records, err := ParseFuturesCSV(data, testDay)
	if err != nil {
		t.Fatalf("parse futures csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	front := records[0]
	if front.Instrument != "FUTSTK" {
		t.Fatalf("expected FUTSTK, got %s", front.Instrument)
	}
	wantExpiry := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	if !front.Expiry.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, front.Expiry)
	}
	if front.Close != 2945.20 {
		t.Fatalf("expected close 2945.20, got %v", front.Close)
	}
	if front.OpenInterest != 5400000 {
		t.Fatalf("expected open interest 5400000, got %v", front.OpenInterest)
	}
}

func TestParseFuturesCSVSkipsBadExpiry(t *testing.T) {
	data := []byte("INSTRUMENT,SYMBOL,EXPIRY_DT,CLOSE,OPEN_INT\n" +
		"FUTSTK,OK,28-Aug-2025,100,500\n" +
		"FUTSTK,BROKEN,2025-08-28,100,500\n")

	records, err := ParseFuturesCSV(data, testDay)
	if err != nil {
		t.Fatalf("parse futures csv: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "OK" {
		t.Fatalf("expected only OK row, got %+v", records)
	}
}

func TestParseMTO(t *testing.T) {
	data := []byte("MTO,14082025\n" +
		"Compulsory Rolling Settlement at a glance\n" +
		"SYMBOL,Series,Deliv Qty,TOTTRDQTY,% of Delivery\n" +
		"RELIANCE,EQ,480000,1200000,40.00\n" +
		"TCS,EQ,560000,800000,70.00\n")

	records, err := ParseMTO(data, testDay)
	if err != nil {
		t.Fatalf("parse mto: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Symbol != "RELIANCE" {
		t.Fatalf("expected RELIANCE, got %s", records[0].Symbol)
	}
	if records[0].DeliveredQty != 480000 {
		t.Fatalf("expected delivered 480000, got %v", records[0].DeliveredQty)
	}
	if records[0].TradedQty != 1200000 {
		t.Fatalf("expected traded 1200000, got %v", records[0].TradedQty)
	}
}

func TestParseMTOLegacyColumnNames(t *testing.T) {
	data := []byte("Preamble line without useful content\n" +
		"Security Name,Series,TradesQty,Deliverable Quantity,Pct\n" +
		"INFY,EQ,500000,250000,50.00\n")

	records, err := ParseMTO(data, testDay)
	if err != nil {
		t.Fatalf("parse mto: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Symbol != "INFY" {
		t.Fatalf("expected INFY, got %s", records[0].Symbol)
	}
	if records[0].DeliveredQty != 250000 || records[0].TradedQty != 500000 {
		t.Fatalf("unexpected quantities: %+v", records[0])
	}
}

func TestParseMTOMissingHeader(t *testing.T) {
	data := []byte("MTO,14082025\n20,1,X,EQ,1,1,100\n")
	if _, err := ParseMTO(data, testDay); err == nil {
		t.Fatal("expected error when header row is absent")
	}
}

func TestArchiveURLs(t *testing.T) {
	c := NewClient(WithBaseURL("https://archives.example.com/"))

	day := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	if got, want := c.equityURL(day), "https://archives.example.com/content/historical/EQUITIES/2025/AUG/cm14AUG2025bhav.csv.zip"; got != want {
		t.Fatalf("equity url:\n got %s\nwant %s", got, want)
	}
	if got, want := c.futuresURL(day), "https://archives.example.com/content/historical/DERIVATIVES/2025/AUG/fo14AUG2025bhav.csv.zip"; got != want {
		t.Fatalf("futures url:\n got %s\nwant %s", got, want)
	}
	if got, want := c.mtoURL(day), "https://archives.example.com/archives/equities/mto/MTO_20250814.DAT"; got != want {
		t.Fatalf("mto url:\n got %s\nwant %s", got, want)
	}
}
