package nse

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SmartScan/internal/domain/models"
)

const expiryLayout = "02-Jan-2006"

// ParseEquityCSV decodes an equity bhavcopy. Only SERIES == EQ rows are
// kept. Rows with unparseable numerics are skipped.
func ParseEquityCSV(data []byte, date time.Time) ([]models.EquityRecord, error) {
	rows, header, err := readCSV(data)
	if err != nil {
		return nil, fmt.Errorf("decode equity csv: %w", err)
	}

	symbolIdx, ok := header["SYMBOL"]
	if !ok {
		return nil, fmt.Errorf("equity csv: missing SYMBOL column")
	}
	seriesIdx, ok := header["SERIES"]
	if !ok {
		return nil, fmt.Errorf("equity csv: missing SERIES column")
	}
	closeIdx, ok := header["CLOSE"]
	if !ok {
		return nil, fmt.Errorf("equity csv: missing CLOSE column")
	}
	qtyIdx, ok := header["TOTTRDQTY"]
	if !ok {
		return nil, fmt.Errorf("equity csv: missing TOTTRDQTY column")
	}
	valIdx, ok := header["TOTTRDVAL"]
	if !ok {
		return nil, fmt.Errorf("equity csv: missing TOTTRDVAL column")
	}

	records := make([]models.EquityRecord, 0, len(rows))
	for _, row := range rows {
		if !rowHas(row, symbolIdx, seriesIdx, closeIdx, qtyIdx, valIdx) {
			continue
		}
		if strings.TrimSpace(row[seriesIdx]) != "EQ" {
			continue
		}

		closePx, err1 := parseFloat(row[closeIdx])
		qty, err2 := parseFloat(row[qtyIdx])
		val, err3 := parseFloat(row[valIdx])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		records = append(records, models.EquityRecord{
			Symbol:      strings.TrimSpace(row[symbolIdx]),
			Date:        date,
			Close:       closePx,
			TradedQty:   qty,
			TradedValue: val,
		})
	}
	return records, nil
}

// ParseFuturesCSV decodes a derivatives bhavcopy. All instruments are
// returned; callers narrow to stock futures.
func ParseFuturesCSV(data []byte, date time.Time) ([]models.FuturesRecord, error) {
	rows, header, err := readCSV(data)
	if err != nil {
		return nil, fmt.Errorf("decode futures csv: %w", err)
	}

	instIdx, ok := header["INSTRUMENT"]
	if !ok {
		return nil, fmt.Errorf("futures csv: missing INSTRUMENT column")
	}
	symbolIdx, ok := header["SYMBOL"]
	if !ok {
		return nil, fmt.Errorf("futures csv: missing SYMBOL column")
	}
	expiryIdx, ok := header["EXPIRY_DT"]
	if !ok {
		return nil, fmt.Errorf("futures csv: missing EXPIRY_DT column")
	}
	closeIdx, ok := header["CLOSE"]
	if !ok {
		return nil, fmt.Errorf("futures csv: missing CLOSE column")
	}
	oiIdx, ok := header["OPEN_INT"]
	if !ok {
		return nil, fmt.Errorf("futures csv: missing OPEN_INT column")
	}

	records := make([]models.FuturesRecord, 0, len(rows))
	for _, row := range rows {
		if !rowHas(row, instIdx, symbolIdx, expiryIdx, closeIdx, oiIdx) {
			continue
		}

		expiry, err := time.Parse(expiryLayout, strings.TrimSpace(row[expiryIdx]))
		if err != nil {
			continue
		}
		closePx, err1 := parseFloat(row[closeIdx])
		oi, err2 := parseFloat(row[oiIdx])
		if err1 != nil || err2 != nil {
			continue
		}

		records = append(records, models.FuturesRecord{
			Symbol:       strings.TrimSpace(row[symbolIdx]),
			Date:         date,
			Instrument:   strings.TrimSpace(row[instIdx]),
			Expiry:       expiry,
			Close:        closePx,
			OpenInterest: oi,
		})
	}
	return records, nil
}

// ParseMTO decodes the plain-text MTO delivery report. The file carries
// preamble lines before the actual header; the header row is located by
// content, and legacy column names are normalized.
func ParseMTO(data []byte, date time.Time) ([]models.DeliveryRecord, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cols *mtoColumns
	records := make([]models.DeliveryRecord, 0, 1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")

		if cols == nil {
			if isMTOHeader(line) {
				var err error
				cols, err = mtoHeaderColumns(fields)
				if err != nil {
					return nil, err
				}
			}
			continue
		}

		if !rowHas(fields, cols.symbol, cols.deliv, cols.traded) {
			continue
		}

		deliv, err1 := parseFloat(fields[cols.deliv])
		traded, err2 := parseFloat(fields[cols.traded])
		if err1 != nil || err2 != nil {
			continue
		}

		records = append(records, models.DeliveryRecord{
			Symbol:       strings.ToUpper(strings.TrimSpace(fields[cols.symbol])),
			Date:         date,
			DeliveredQty: deliv,
			TradedQty:    traded,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mto report: %w", err)
	}
	if cols == nil {
		return nil, fmt.Errorf("mto report: header row not found")
	}
	return records, nil
}

type mtoColumns struct {
	symbol int
	deliv  int
	traded int
}

// The header row starts with the security name column; preamble lines
// before it do not.
func isMTOHeader(line string) bool {
	norm := strings.ToLower(strings.ReplaceAll(line, " ", ""))
	return strings.HasPrefix(norm, "securityname") || strings.HasPrefix(norm, "symbol")
}

// mtoHeaderColumns resolves column positions. Older reports use
// SECURITYNAME / DELIVERABLEQUANTITY / TRADESQTY for the same fields.
func mtoHeaderColumns(fields []string) (*mtoColumns, error) {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.ToUpper(strings.TrimSpace(f))
		name = strings.NewReplacer(" ", "", "(", "", ")", "").Replace(name)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	pick := func(names ...string) (int, bool) {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i, true
			}
		}
		return 0, false
	}

	symbol, ok1 := pick("SYMBOL", "SECURITYNAME")
	deliv, ok2 := pick("DELIVQTY", "DELIVERABLEQUANTITY", "DELIVERABLEQTY")
	traded, ok3 := pick("TOTTRDQTY", "TRADESQTY")
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("mto report: unrecognized header %v", fields)
	}
	return &mtoColumns{symbol: symbol, deliv: deliv, traded: traded}, nil
}

func readCSV(data []byte) ([][]string, map[string]int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return rows[1:], header, nil
}

func rowHas(row []string, idxs ...int) bool {
	for _, i := range idxs {
		if i >= len(row) {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
