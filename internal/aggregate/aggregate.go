package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// Dimension is the record field a view is grouped by.
type Dimension string

const (
	ByHour     Dimension = "hour"
	ByProvider Dimension = "provider_code"
	BySite     Dimension = "site_code"
)

// Dimensions lists the supported groupings.
var Dimensions = []Dimension{ByHour, ByProvider, BySite}

// ParseDimension accepts the column name or its short form.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hour":
		return ByHour, nil
	case "provider_code", "providercode", "provider":
		return ByProvider, nil
	case "site_code", "sitecode", "site":
		return BySite, nil
	}
	return "", fmt.Errorf("unknown group-by dimension %q", s)
}

// Key returns the group key of r under d.
func (d Dimension) Key(r models.MetricRecord) string {
	switch d {
	case ByProvider:
		return r.ProviderCode
	case BySite:
		return r.SiteCode
	default:
		return strconv.Itoa(r.Hour)
	}
}

// Order selects how groups are sequenced.
type Order int

const (
	// OrderByKey sorts ascending by key; hours sort numerically.
	OrderByKey Order = iota
	// OrderBySumDesc sorts by descending sum, ties by ascending key.
	OrderBySumDesc
)

func (o Order) String() string {
	if o == OrderBySumDesc {
		return "sum"
	}
	return "key"
}

// ParseOrder accepts "key" or "sum".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key", "":
		return OrderByKey, nil
	case "sum":
		return OrderBySumDesc, nil
	}
	return OrderByKey, fmt.Errorf("unknown order %q", s)
}

// Group is one bucket of an Aggregation.
type Group struct {
	Key string
	// Hour is set only when grouping by hour.
	Hour int
	Stats
}

// Aggregation is the ordered result of GroupBy.
type Aggregation struct {
	Dimension Dimension
	Metric    models.Metric
	Order     Order
	Groups    []Group
}

// Len returns the number of groups.
func (a Aggregation) Len() int {
	return len(a.Groups)
}

// Get looks up a group by key.
func (a Aggregation) Get(key string) (Group, bool) {
	for _, g := range a.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Keys returns the group keys in order.
func (a Aggregation) Keys() []string {
	keys := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		keys[i] = g.Key
	}
	return keys
}

// GroupBy buckets view by dim and computes Stats of metric for each
// non-empty group. An empty view yields an empty aggregation.
func GroupBy(view []models.MetricRecord, metric models.Metric, dim Dimension, order Order) Aggregation {
	agg := Aggregation{Dimension: dim, Metric: metric, Order: order, Groups: []Group{}}

	index := make(map[string]int)
	var buckets [][]float64
	for _, r := range view {
		key := dim.Key(r)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, nil)
			agg.Groups = append(agg.Groups, Group{Key: key, Hour: r.Hour})
		}
		buckets[i] = append(buckets[i], metric.Value(r))
	}

	for i := range agg.Groups {
		agg.Groups[i].Stats = Compute(buckets[i])
		if dim != ByHour {
			agg.Groups[i].Hour = 0
		}
	}

	sortGroups(agg.Groups, dim, order)
	return agg
}

func sortGroups(groups []Group, dim Dimension, order Order) {
	keyCmp := func(a, b Group) int {
		if dim == ByHour {
			return cmp.Compare(a.Hour, b.Hour)
		}
		return strings.Compare(a.Key, b.Key)
	}

	if order == OrderBySumDesc {
		slices.SortStableFunc(groups, func(a, b Group) int {
			if c := cmp.Compare(b.Sum, a.Sum); c != 0 {
				return c
			}
			return keyCmp(a, b)
		})
		return
	}
	slices.SortStableFunc(groups, keyCmp)
}

// TopN returns at most n groups by descending sum, ties broken by
// ascending key. agg is not modified.
func TopN(agg Aggregation, n int) []Group {
	if n <= 0 {
		return []Group{}
	}
	groups := slices.Clone(agg.Groups)
	sortGroups(groups, agg.Dimension, OrderBySumDesc)
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopNByMean ranks by descending mean, ties by ascending key.
func TopNByMean(agg Aggregation, n int) []Group {
	if n <= 0 {
		return []Group{}
	}
	groups := slices.Clone(agg.Groups)
	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(b.Mean, a.Mean); c != 0 {
			return c
		}
		if agg.Dimension == ByHour {
			return cmp.Compare(a.Hour, b.Hour)
		}
		return strings.Compare(a.Key, b.Key)
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// Summary treats the whole view as a single group.
func Summary(view []models.MetricRecord, metric models.Metric) Stats {
	return Compute(values(view, metric))
}

func values(view []models.MetricRecord, metric models.Metric) []float64 {
	out := make([]float64, len(view))
	for i, r := range view {
		out[i] = metric.Value(r)
	}
	return out
}
