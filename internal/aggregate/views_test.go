package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

func TestComputeHeadline(t *testing.T) {
	h := ComputeHeadline(sampleView())

	assert.Equal(t, 3, h.Sites)
	assert.Equal(t, 3, h.Providers)
	assert.Equal(t, 6, h.DataPoints)
	assert.Equal(t, 4, h.Hours)
	assert.InDelta(t, 20, h.AvgTPH, 1e-9)
	assert.InDelta(t, 40, h.MaxTPH, 1e-9)
	assert.InDelta(t, 13.0/6.0, h.AvgDelay, 1e-9)
	assert.InDelta(t, 0.5, h.MinDelay, 1e-9)
	assert.Equal(t, int64(24), h.TotalCount)
	assert.InDelta(t, 4, h.AvgCount, 1e-9)
	assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), h.LatestUpdate)

	assert.Equal(t, Headline{}, ComputeHeadline(nil))
}

func TestSeriesBy(t *testing.T) {
	view := sampleView()

	series := SeriesBy(view, models.MetricTPHMedian, ByProvider)
	require.Len(t, series, 3)
	assert.Equal(t, "AI", series[0].Key)
	assert.InDelta(t, 10, series[0].Values[3], 1e-9)
	assert.InDelta(t, 30, series[0].Values[1], 1e-9)
	assert.True(t, math.IsNaN(series[0].Values[0]))

	all := SeriesBy(view, models.MetricTPHMedian, ByHour)
	require.Len(t, all, 1)
	assert.Equal(t, "all", all[0].Key)
	// Hour 3 holds 10 and 20, averaged.
	assert.InDelta(t, 15, all[0].Values[3], 1e-9)

	counts := SeriesBy(view, models.MetricCountSum, ByHour)
	// Counts are summed: 4 + 2.
	assert.InDelta(t, 6, counts[0].Values[3], 1e-9)

	pts := all[0].Points(models.HourRange{Min: 0, Max: 3})
	assert.Len(t, pts, 4)
	assert.Nil(t, all[0].Points(models.HourRange{Min: 4, Max: 1}))
}

func TestPivot(t *testing.T) {
	view := sampleView()
	m := Pivot(view, models.MetricCountSum, BySite)

	assert.Equal(t, []string{"S1", "S2", "S3"}, m.Rows)
	assert.Equal(t, []int{0, 1, 3, 12}, m.Hours)
	require.Len(t, m.Cells, 3)

	// S1 at hour 3 has counts 4 and 2; heatmaps average.
	assert.InDelta(t, 3, m.Cells[0][2], 1e-9)
	assert.True(t, math.IsNaN(m.Cells[0][0]))

	lo, hi, ok := m.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 3, lo, 1e-9)
	assert.InDelta(t, 8, hi, 1e-9)

	_, _, ok = Pivot(nil, models.MetricTPHMedian, BySite).Bounds()
	assert.False(t, ok)
}

func TestCombinations(t *testing.T) {
	view := append(sampleView(), rec("AI", "S1", 4, 30, 10, 3.0))

	combos := Combinations(view, SortTPHAvg, false)
	require.Len(t, combos, 6)
	assert.Equal(t, "ZZ-S2", combos[0].Key())

	var ai1 Combination
	for _, c := range combos {
		if c.Key() == "AI-S1" {
			ai1 = c
		}
	}
	assert.Equal(t, 2, ai1.TPH.Count)
	assert.InDelta(t, 20, ai1.TPH.Mean, 1e-9)
	assert.InDelta(t, 30, ai1.TPH.Max, 1e-9)
	assert.InDelta(t, 14, ai1.Count.Sum, 1e-9)
	assert.InDelta(t, 2, ai1.Delay.Mean, 1e-9)

	asc := Combinations(view, SortCountTotal, true)
	assert.Equal(t, "ZZ-S2", asc[0].Key())
	assert.Equal(t, "AI-S1", asc[len(asc)-1].Key())

	assert.NotNil(t, Combinations(nil, SortDelayAvg, false))
}

func TestCombinationSort(t *testing.T) {
	s, err := ParseCombinationSort("count_total")
	require.NoError(t, err)
	assert.Equal(t, SortCountTotal, s)
	assert.Equal(t, SortDelayAvg, s.Next())
	assert.Equal(t, SortTPHAvg, SortDelayAvg.Next())

	_, err = ParseCombinationSort("nope")
	assert.Error(t, err)
}

func TestCorrelation(t *testing.T) {
	view := []models.MetricRecord{
		rec("AI", "S1", 0, 1, 0, 2),
		rec("AI", "S1", 1, 2, 0, 4),
		rec("AI", "S1", 2, 3, 0, 6),
	}
	r, ok := Correlation(view, models.MetricTPHMedian, models.MetricAvgFirstRespDelay)
	require.True(t, ok)
	assert.InDelta(t, 1, r, 1e-9)

	view[2].AvgFirstRespDelayMinute = 0
	r, ok = Correlation(view, models.MetricTPHMedian, models.MetricAvgFirstRespDelay)
	require.True(t, ok)
	assert.Less(t, r, 1.0)

	_, ok = Correlation(view[:1], models.MetricTPHMedian, models.MetricAvgFirstRespDelay)
	assert.False(t, ok)

	_, ok = Correlation(view, models.MetricCountSum, models.MetricTPHMedian)
	assert.False(t, ok)
}
