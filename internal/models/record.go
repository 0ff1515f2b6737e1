// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// MetricRecord is one hourly observation for a provider at a site.
type MetricRecord struct {
	ProviderCode            string
	SiteCode                string
	Hour                    int
	Measure                 string
	TPHMedian               float64
	CountSum                int64
	AvgFirstRespDelayMinute float64
	LastUpdated             time.Time
}

// String returns a compact identifier such as "AI-F9-14".
func (r MetricRecord) String() string {
	return fmt.Sprintf("%s-%s-%02d", r.ProviderCode, r.SiteCode, r.Hour)
}

// Dataset is the loaded, read-only table of records. A reload replaces the
// whole value; nothing mutates Records after Load returns.
type Dataset struct {
	Records  []MetricRecord
	Path     string
	ModTime  time.Time
	Size     int64
	LoadedAt time.Time

	// Dropped holds one error per row skipped while loading.
	Dropped []error
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// DroppedCount returns how many rows were rejected during load.
func (d *Dataset) DroppedCount() int {
	if d == nil {
		return 0
	}
	return len(d.Dropped)
}

// LatestUpdate returns the most recent last_updated timestamp in the dataset.
func (d *Dataset) LatestUpdate() time.Time {
	var latest time.Time
	if d == nil {
		return latest
	}
	for i := range d.Records {
		if d.Records[i].LastUpdated.After(latest) {
			latest = d.Records[i].LastUpdated
		}
	}
	return latest
}
