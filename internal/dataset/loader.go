// Package dataset loads site metric CSV files into typed, read-only datasets.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// Policy decides what happens to rows that fail schema validation.
type Policy int

const (
	// PolicySkip drops bad rows and records them in Dataset.Dropped.
	PolicySkip Policy = iota
	// PolicyStrict refuses the whole file on the first bad row.
	PolicyStrict
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "skip"
}

// ParsePolicy parses "skip" or "strict".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return PolicySkip, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicySkip, fmt.Errorf("unknown schema policy %q (want skip or strict)", s)
}

// Canonical column names.
const (
	ColProviderCode = "provider_code"
	ColSiteCode     = "site_code"
	ColHour         = "hour"
	ColMeasure      = "measure"
	ColTPHMedian    = "tph_median"
	ColCountSum     = "count_sum"
	ColAvgDelay     = "avg_first_resp_delay_minute"
	ColLastUpdated  = "last_updated"
)

// Columns lists the canonical header in file order.
var Columns = []string{
	ColProviderCode, ColSiteCode, ColHour, ColMeasure,
	ColTPHMedian, ColCountSum, ColAvgDelay, ColLastUpdated,
}

var headerAliases = map[string]string{
	"providercode": ColProviderCode,
	"sitecode":     ColSiteCode,
	"ct_sum":       ColCountSum,
}

var requiredColumns = []string{
	ColProviderCode, ColSiteCode, ColHour,
	ColTPHMedian, ColCountSum, ColAvgDelay, ColLastUpdated,
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Load reads path with the skip policy.
func Load(path string) (*models.Dataset, error) {
	return LoadWithPolicy(path, PolicySkip)
}

// LoadWithPolicy reads and validates the CSV file at path.
func LoadWithPolicy(path string, policy Policy) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	records, dropped, err := Parse(f, policy)
	if err != nil {
		var loadErr *DataLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}

	if len(dropped) > 0 {
		logger.Warn("dropped invalid rows", "path", path, "dropped", len(dropped), "first", dropped[0].Error())
	}

	return &models.Dataset{
		Records:  records,
		Path:     path,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		LoadedAt: time.Now(),
		Dropped:  dropped,
	}, nil
}

// Parse decodes CSV from r. Under PolicyStrict the first bad row is returned
// as a *SchemaError; under PolicySkip bad rows come back in dropped.
func Parse(r io.Reader, policy Policy) (records []models.MetricRecord, dropped []error, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &DataLoadError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, nil, &DataLoadError{Err: err}
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, nil, &DataLoadError{Err: err}
	}

	for {
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) {
			rowErr := &SchemaError{Row: parseErr.StartLine, Reason: parseErr.Err.Error()}
			if policy == PolicyStrict {
				return nil, nil, rowErr
			}
			dropped = append(dropped, rowErr)
			continue
		}
		if readErr != nil {
			return nil, nil, &DataLoadError{Err: readErr}
		}

		line, _ := reader.FieldPos(0)
		rec, rowErr := parseRow(fields, index, len(header), line)
		if rowErr != nil {
			if policy == PolicyStrict {
				return nil, nil, rowErr
			}
			dropped = append(dropped, rowErr)
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return index, nil
}

func parseRow(fields []string, index map[string]int, width, line int) (models.MetricRecord, error) {
	var rec models.MetricRecord

	if len(fields) != width {
		return rec, &SchemaError{
			Row:    line,
			Reason: fmt.Sprintf("has %d fields, header has %d", len(fields), width),
		}
	}

	get := func(col string) string {
		i, ok := index[col]
		if !ok {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	fail := func(col, reason string) error {
		return &SchemaError{Row: line, Column: col, Value: get(col), Reason: reason}
	}

	rec.ProviderCode = get(ColProviderCode)
	if rec.ProviderCode == "" {
		return rec, fail(ColProviderCode, "must not be empty")
	}
	rec.SiteCode = get(ColSiteCode)
	if rec.SiteCode == "" {
		return rec, fail(ColSiteCode, "must not be empty")
	}
	rec.Measure = get(ColMeasure)

	hour, err := parseInteger(get(ColHour))
	if err != nil {
		return rec, fail(ColHour, err.Error())
	}
	if hour < models.MinHour || hour > models.MaxHour {
		return rec, fail(ColHour, "is outside 0-23")
	}
	rec.Hour = int(hour)

	if rec.TPHMedian, err = parseNonNegative(get(ColTPHMedian)); err != nil {
		return rec, fail(ColTPHMedian, err.Error())
	}

	count, err := parseInteger(get(ColCountSum))
	if err != nil {
		return rec, fail(ColCountSum, err.Error())
	}
	if count < 0 {
		return rec, fail(ColCountSum, "must not be negative")
	}
	rec.CountSum = count

	if rec.AvgFirstRespDelayMinute, err = parseNonNegative(get(ColAvgDelay)); err != nil {
		return rec, fail(ColAvgDelay, err.Error())
	}

	if rec.LastUpdated, err = parseTimestamp(get(ColLastUpdated)); err != nil {
		return rec, fail(ColLastUpdated, "is not a date-time")
	}

	return rec, nil
}

var (
	errNotInteger   = errors.New("is not an integer")
	errIntegerRange = errors.New("is out of range")
)

// parseInteger accepts "12" and integral floats such as "12.0".
func parseInteger(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errIntegerRange
	}
	return int64(f), nil
}

func parseNonNegative(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("is not a number")
	}
	if f < 0 {
		return 0, errors.New("must not be negative")
	}
	return f, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
