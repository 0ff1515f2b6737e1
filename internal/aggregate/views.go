package aggregate

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// Headline holds the overview numbers for a view.
type Headline struct {
	Sites      int
	Providers  int
	DataPoints int
	Hours      int

	AvgTPH   float64
	MaxTPH   float64
	AvgDelay float64
	MinDelay float64

	TotalCount int64
	AvgCount   float64

	LatestUpdate time.Time
}

// ComputeHeadline derives the overview numbers. The zero value is returned
// for an empty view.
func ComputeHeadline(view []models.MetricRecord) Headline {
	if len(view) == 0 {
		return Headline{}
	}

	sites := make(map[string]struct{})
	providers := make(map[string]struct{})
	var hours [models.MaxHour + 1]bool

	h := Headline{DataPoints: len(view)}
	for _, r := range view {
		sites[r.SiteCode] = struct{}{}
		providers[r.ProviderCode] = struct{}{}
		if !hours[r.Hour] {
			hours[r.Hour] = true
			h.Hours++
		}
		h.TotalCount += r.CountSum
		if r.LastUpdated.After(h.LatestUpdate) {
			h.LatestUpdate = r.LastUpdated
		}
	}
	h.Sites = len(sites)
	h.Providers = len(providers)

	tph := Summary(view, models.MetricTPHMedian)
	delay := Summary(view, models.MetricAvgFirstRespDelay)
	h.AvgTPH, h.MaxTPH = tph.Mean, tph.Max
	h.AvgDelay, h.MinDelay = delay.Mean, delay.Min
	h.AvgCount = float64(h.TotalCount) / float64(len(view))
	return h
}

// Series is one line of a per-hour chart. Hours without data are NaN.
type Series struct {
	Key    string
	Values [models.MaxHour + 1]float64
}

// Points returns the values between the bounds of hours, inclusive.
func (s Series) Points(hours models.HourRange) []float64 {
	if !hours.Valid() {
		return nil
	}
	return slices.Clone(s.Values[hours.Min : hours.Max+1])
}

// SeriesBy builds one hourly series per provider or site using the
// metric's reducer: summed for counts, averaged otherwise. ByHour yields a
// single series keyed "all". Series are ordered by key.
func SeriesBy(view []models.MetricRecord, metric models.Metric, dim Dimension) []Series {
	return seriesBy(view, metric, dim, metric.Summed())
}

func seriesBy(view []models.MetricRecord, metric models.Metric, dim Dimension, summed bool) []Series {
	type cell struct {
		sum float64
		n   int
	}
	cells := make(map[string]*[models.MaxHour + 1]cell)

	for _, r := range view {
		key := "all"
		if dim != ByHour {
			key = dim.Key(r)
		}
		row, ok := cells[key]
		if !ok {
			row = new([models.MaxHour + 1]cell)
			cells[key] = row
		}
		row[r.Hour].sum += metric.Value(r)
		row[r.Hour].n++
	}

	keys := make([]string, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Series, 0, len(keys))
	for _, k := range keys {
		s := Series{Key: k}
		for hour, c := range cells[k] {
			switch {
			case c.n == 0:
				s.Values[hour] = math.NaN()
			case summed:
				s.Values[hour] = c.sum
			default:
				s.Values[hour] = c.sum / float64(c.n)
			}
		}
		out = append(out, s)
	}
	return out
}

// Matrix is a row × hour table of means used for heatmaps. Missing cells
// are NaN.
type Matrix struct {
	Rows  []string
	Hours []int
	Cells [][]float64
}

// Pivot averages metric per (dim key, hour), counts included. Rows are
// sorted by key and only hours present in view become columns.
func Pivot(view []models.MetricRecord, metric models.Metric, dim Dimension) Matrix {
	series := seriesBy(view, metric, dim, false)

	var present [models.MaxHour + 1]bool
	for _, r := range view {
		present[r.Hour] = true
	}

	m := Matrix{Rows: make([]string, 0, len(series)), Cells: make([][]float64, 0, len(series))}
	for hour, ok := range present {
		if ok {
			m.Hours = append(m.Hours, hour)
		}
	}
	for _, s := range series {
		row := make([]float64, len(m.Hours))
		for i, hour := range m.Hours {
			row[i] = s.Values[hour]
		}
		m.Rows = append(m.Rows, s.Key)
		m.Cells = append(m.Cells, row)
	}
	return m
}

// Bounds returns the smallest and largest finite cell. ok is false when the
// matrix has no data.
func (m Matrix) Bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Combination summarizes one provider-site pair.
type Combination struct {
	Provider string
	Site     string
	TPH      Stats
	Count    Stats
	Delay    Stats
}

// Key returns "PROVIDER-SITE".
func (c Combination) Key() string {
	return c.Provider + "-" + c.Site
}

// CombinationSort names the column combinations are sorted by.
type CombinationSort int

const (
	SortTPHAvg CombinationSort = iota
	SortTPHMax
	SortCountTotal
	SortDelayAvg
)

// CombinationSorts lists the sort columns in display order.
var CombinationSorts = []CombinationSort{SortTPHAvg, SortTPHMax, SortCountTotal, SortDelayAvg}

func (s CombinationSort) String() string {
	switch s {
	case SortTPHMax:
		return "TPH_Max"
	case SortCountTotal:
		return "Count_Total"
	case SortDelayAvg:
		return "Delay_Avg"
	default:
		return "TPH_Avg"
	}
}

// Next cycles through CombinationSorts.
func (s CombinationSort) Next() CombinationSort {
	return (s + 1) % CombinationSort(len(CombinationSorts))
}

// ParseCombinationSort accepts a column name such as "tph_avg".
func ParseCombinationSort(s string) (CombinationSort, error) {
	for _, cs := range CombinationSorts {
		if strings.EqualFold(cs.String(), strings.TrimSpace(s)) {
			return cs, nil
		}
	}
	return SortTPHAvg, fmt.Errorf("unknown combination sort %q", s)
}

func (s CombinationSort) value(c Combination) float64 {
	switch s {
	case SortTPHMax:
		return c.TPH.Max
	case SortCountTotal:
		return c.Count.Sum
	case SortDelayAvg:
		return c.Delay.Mean
	default:
		return c.TPH.Mean
	}
}

// Combinations groups view by provider-site pair and sorts by column,
// descending unless ascending is set. Ties fall back to the pair key.
func Combinations(view []models.MetricRecord, by CombinationSort, ascending bool) []Combination {
	type bucket struct {
		tph, count, delay []float64
	}
	index := make(map[[2]string]int)
	var combos []Combination
	var buckets []*bucket

	for _, r := range view {
		key := [2]string{r.ProviderCode, r.SiteCode}
		i, ok := index[key]
		if !ok {
			i = len(combos)
			index[key] = i
			combos = append(combos, Combination{Provider: r.ProviderCode, Site: r.SiteCode})
			buckets = append(buckets, &bucket{})
		}
		b := buckets[i]
		b.tph = append(b.tph, r.TPHMedian)
		b.count = append(b.count, float64(r.CountSum))
		b.delay = append(b.delay, r.AvgFirstRespDelayMinute)
	}

	for i, b := range buckets {
		combos[i].TPH = Compute(b.tph)
		combos[i].Count = Compute(b.count)
		combos[i].Delay = Compute(b.delay)
	}

	slices.SortStableFunc(combos, func(a, b Combination) int {
		c := cmp.Compare(by.value(a), by.value(b))
		if !ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c := strings.Compare(a.Provider, b.Provider); c != 0 {
			return c
		}
		return strings.Compare(a.Site, b.Site)
	})
	if combos == nil {
		combos = []Combination{}
	}
	return combos
}

// Correlation returns the Pearson coefficient between two metrics over
// view. ok is false with fewer than two records or zero variance.
func Correlation(view []models.MetricRecord, x, y models.Metric) (r float64, ok bool) {
	n := len(view)
	if n < 2 {
		return 0, false
	}

	xs, ys := values(view, x), values(view, y)
	if Compute(xs).StdDev == 0 || Compute(ys).StdDev == 0 {
		return 0, false
	}
	r, err := stats.Pearson(xs, ys)
	if err != nil {
		return 0, false
	}
	return r, true
}
