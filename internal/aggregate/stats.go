// Package aggregate computes grouped statistics over filtered views.
package aggregate

import "github.com/montanaflynn/stats"

// Stats summarizes one group of metric values.
type Stats struct {
	Count  int
	Sum    float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64

	// StdDev is the sample standard deviation, zero below two values.
	StdDev float64
}

// Compute returns the statistics of values. values is not modified.
func Compute(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	// The inputs are non-empty, which is the only error these report.
	data := stats.Float64Data(values)
	s := Stats{Count: len(values)}
	s.Sum, _ = stats.Sum(data)
	s.Mean, _ = stats.Mean(data)
	s.Median, _ = stats.Median(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	if len(values) > 1 {
		s.StdDev, _ = stats.StandardDeviationSample(data)
	}
	return s
}
