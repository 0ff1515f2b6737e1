// Package export serializes filtered views and combination tables to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/dataset"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// File name prefixes for the two export kinds.
const (
	RecordsPrefix      = "filtered_site_metrics"
	CombinationsPrefix = "provider_site_combinations"
)

// CombinationHeader is the header row written by WriteCombinations.
var CombinationHeader = []string{
	"Provider_Site",
	"provider_code",
	"site_code",
	"TPH_Avg",
	"TPH_Min",
	"TPH_Max",
	"TPH_StdDev",
	"Count_Avg",
	"Count_Total",
	"Delay_Avg",
	"Delay_Min",
	"Delay_Max",
}

// FileName returns "<prefix>_YYYYmmdd_HHMMSS.csv".
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_150405"))
}

// WriteRecords writes view in order under the canonical dataset header.
// Timestamps are RFC 3339 with their offset and fractional seconds, so a
// reload yields the same instants.
func WriteRecords(w io.Writer, view []models.MetricRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range view {
		row := []string{
			r.ProviderCode,
			r.SiteCode,
			strconv.Itoa(r.Hour),
			r.Measure,
			formatFloat(r.TPHMedian),
			strconv.FormatInt(r.CountSum, 10),
			formatFloat(r.AvgFirstRespDelayMinute),
			formatTime(r.LastUpdated),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCombinations writes the combination table, values rounded to two
// decimals.
func WriteCombinations(w io.Writer, combos []aggregate.Combination) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CombinationHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, c := range combos {
		row := []string{
			c.Key(),
			c.Provider,
			c.Site,
			round2(c.TPH.Mean),
			round2(c.TPH.Min),
			round2(c.TPH.Max),
			round2(c.TPH.StdDev),
			round2(c.Count.Mean),
			round2(c.Count.Sum),
			round2(c.Delay.Mean),
			round2(c.Delay.Min),
			round2(c.Delay.Max),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write combination %s: %w", c.Key(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToFile creates dir/FileName(prefix, now) and fills it with write. The
// full path is returned.
func ToFile(dir, prefix string, now time.Time, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(prefix, now))
	f, err := os.Create(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
