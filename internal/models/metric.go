package models

import (
	"fmt"
	"strings"
)

// Metric names a numeric column that charts and aggregates can focus on.
type Metric string

const (
	// MetricTPHMedian is the median transactions per hour.
	MetricTPHMedian Metric = "tph_median"
	// MetricCountSum is the transaction count for the hour.
	MetricCountSum Metric = "count_sum"
	// MetricAvgFirstRespDelay is the mean first response delay in minutes.
	MetricAvgFirstRespDelay Metric = "avg_first_resp_delay_minute"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricTPHMedian, MetricCountSum, MetricAvgFirstRespDelay}

// ParseMetric accepts the column name or the legacy "ct_sum" alias.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tph_median", "tph":
		return MetricTPHMedian, nil
	case "count_sum", "ct_sum", "count":
		return MetricCountSum, nil
	case "avg_first_resp_delay_minute", "delay":
		return MetricAvgFirstRespDelay, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Value extracts the metric from a record.
func (m Metric) Value(r MetricRecord) float64 {
	switch m {
	case MetricCountSum:
		return float64(r.CountSum)
	case MetricAvgFirstRespDelay:
		return r.AvgFirstRespDelayMinute
	default:
		return r.TPHMedian
	}
}

// Label returns a human readable name.
func (m Metric) Label() string {
	switch m {
	case MetricTPHMedian:
		return "TPH Median"
	case MetricCountSum:
		return "Count Sum"
	case MetricAvgFirstRespDelay:
		return "Avg Response Delay"
	default:
		return string(m)
	}
}

// Summed reports whether the metric is added up, rather than averaged, when
// several records fall into the same chart cell.
func (m Metric) Summed() bool {
	return m == MetricCountSum
}

// Next cycles through Metrics.
func (m Metric) Next() Metric {
	for i, metric := range Metrics {
		if metric == m {
			return Metrics[(i+1)%len(Metrics)]
		}
	}
	return Metrics[0]
}
