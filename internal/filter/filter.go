// Package filter narrows a dataset to the records matching a FilterSpec.
package filter

import (
	"fmt"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// InvalidRangeError reports an hour range whose bounds are inverted or
// outside the day.
type InvalidRangeError struct {
	Min int
	Max int
}

func (e *InvalidRangeError) Error() string {
	if e.Min > e.Max {
		return fmt.Sprintf("invalid hour range: min %d is greater than max %d", e.Min, e.Max)
	}
	return fmt.Sprintf("invalid hour range: %d-%d is outside %d-%d", e.Min, e.Max, models.MinHour, models.MaxHour)
}

// ValidateRange returns an *InvalidRangeError for unusable ranges.
func ValidateRange(h models.HourRange) error {
	if !h.Valid() {
		return &InvalidRangeError{Min: h.Min, Max: h.Max}
	}
	return nil
}

// Apply returns the records of ds that match spec, in dataset order. The
// result is a new slice; ds is never modified.
func Apply(ds *models.Dataset, spec models.FilterSpec) ([]models.MetricRecord, error) {
	if ds == nil {
		return Records(nil, spec)
	}
	return Records(ds.Records, spec)
}

// Records filters an arbitrary record slice with the same rules as Apply.
func Records(records []models.MetricRecord, spec models.FilterSpec) ([]models.MetricRecord, error) {
	if err := ValidateRange(spec.Hours); err != nil {
		return nil, err
	}

	view := make([]models.MetricRecord, 0)
	if len(spec.Providers) == 0 || len(spec.Sites) == 0 {
		return view, nil
	}

	for _, r := range records {
		if Match(r, spec) {
			view = append(view, r)
		}
	}
	return view, nil
}

// Match reports whether a single record satisfies spec. The range is assumed valid.
func Match(r models.MetricRecord, spec models.FilterSpec) bool {
	return spec.Providers.Has(r.ProviderCode) && spec.Sites.Has(r.SiteCode) && spec.Hours.Contains(r.Hour)
}
