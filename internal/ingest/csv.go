// Package ingest loads and validates OHLCV bar files. The core assumes
// sorted, de-duplicated, numeric bars; this package is the upstream that
// rejects everything else.
package ingest

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

var requiredColumns = []string{"date", "open", "high", "low", "close"}

// Date layouts accepted in bar files, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// barRow is the raw CSV shape. Fields stay strings so that a bad cell can
// be reported as a typed row error instead of a decoder failure.
type barRow struct {
	Date   string `csv:"date"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume string `csv:"volume"`
}

// LoadBars reads one instrument's bar file.
func LoadBars(path string) ([]models.Bar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading bar file %s", path)
	}
	return ParseBars(data)
}

// ParseBars decodes CSV bytes into a validated bar sequence. Headers are
// matched case-insensitively; timestamps must be strictly increasing.
func ParseBars(data []byte) ([]models.Bar, error) {
	data = normalizeHeader(data)
	if err := checkColumns(data); err != nil {
		return nil, err
	}

	var rows []*barRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, errors.Wrap(err, "decoding bar csv")
	}

	bars := make([]models.Bar, 0, len(rows))
	for i, row := range rows {
		bar, err := parseRow(row, i+2) // 1-based line, after header
		if err != nil {
			return nil, err
		}
		if len(bars) > 0 && !bar.Timestamp.After(bars[len(bars)-1].Timestamp) {
			return nil, errors.NewDataError("bars", "", "timestamps not strictly increasing", errors.ErrUnorderedBars)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// normalizeHeader lowercases the header line so that Open/OPEN/open all match.
func normalizeHeader(data []byte) []byte {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return bytes.ToLower(data)
	}
	header := bytes.ToLower(data[:idx])
	return append(append(make([]byte, 0, len(data)), header...), data[idx:]...)
}

func checkColumns(data []byte) error {
	idx := bytes.IndexByte(data, '\n')
	header := string(data)
	if idx >= 0 {
		header = string(data[:idx])
	}
	have := make(map[string]bool)
	for _, col := range strings.Split(strings.TrimSpace(header), ",") {
		have[strings.TrimSpace(col)] = true
	}
	for _, col := range requiredColumns {
		if !have[col] {
			return errors.Wrapf(errors.ErrMissingColumn, "column %q", col)
		}
	}
	return nil
}

func parseRow(row *barRow, line int) (models.Bar, error) {
	var bar models.Bar
	var err error

	bar.Timestamp, err = parseDate(row.Date)
	if err != nil {
		return bar, errors.NewRowError(line, "date", "unparsable date", err)
	}

	if bar.Open, err = parsePrice(row.Open); err != nil {
		return bar, errors.NewRowError(line, "open", "not numeric", err)
	}
	if bar.High, err = parsePrice(row.High); err != nil {
		return bar, errors.NewRowError(line, "high", "not numeric", err)
	}
	if bar.Low, err = parsePrice(row.Low); err != nil {
		return bar, errors.NewRowError(line, "low", "not numeric", err)
	}
	if bar.Close, err = parsePrice(row.Close); err != nil {
		return bar, errors.NewRowError(line, "close", "not numeric", err)
	}

	// Volume is optional; an absent column decodes to the empty string.
	if strings.TrimSpace(row.Volume) != "" {
		if bar.Volume, err = strconv.ParseInt(strings.TrimSpace(row.Volume), 10, 64); err != nil {
			return bar, errors.NewRowError(line, "volume", "not numeric", errors.ErrNonNumeric)
		}
	}
	return bar, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.ErrNonNumeric
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.ErrNonNumeric
	}
	return v, nil
}
