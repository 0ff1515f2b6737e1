// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// NoData is rendered in place of a chart with nothing to plot.
const NoData = "No data available"

// seriesColors pairs an asciigraph color with the lipgloss color used for
// its legend entry.
var seriesColors = []struct {
	graph  asciigraph.AnsiColor
	legend lipgloss.Color
}{
	{asciigraph.Blue, lipgloss.Color("12")},
	{asciigraph.Orange, lipgloss.Color("214")},
	{asciigraph.Green, lipgloss.Color("2")},
	{asciigraph.Magenta, lipgloss.Color("13")},
	{asciigraph.Yellow, lipgloss.Color("11")},
	{asciigraph.Cyan, lipgloss.Color("14")},
	{asciigraph.Red, lipgloss.Color("9")},
	{asciigraph.Goldenrod, lipgloss.Color("178")},
}

// MaxSeries is the number of lines a multi-series chart can tell apart.
var MaxSeries = len(seriesColors)

// SeriesColor returns the terminal color of the i-th line of a
// multi-series chart, for tables that sit next to one.
func SeriesColor(i int) lipgloss.Color {
	return seriesColors[i%len(seriesColors)].legend
}

// Line is one named series of a multi-series chart. NaN marks a gap.
type Line struct {
	Label  string
	Values []float64
}

func hasFinite(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func clampChart(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if !hasFinite(data) {
		return styles.HelpStyle.Render(NoData)
	}
	width, height = clampChart(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors[0].graph),
	)
}

// RenderMultiLineChart plots up to MaxSeries lines on shared axes with a
// legend. Series without a single finite point are skipped.
func RenderMultiLineChart(lines []Line, width, height int, caption string) string {
	var (
		data    [][]float64
		colors  []asciigraph.AnsiColor
		legends []string
	)
	for _, l := range lines {
		if len(data) == MaxSeries {
			break
		}
		if !hasFinite(l.Values) {
			continue
		}
		data = append(data, l.Values)
		colors = append(colors, seriesColors[len(colors)].graph)
		legends = append(legends, l.Label)
	}
	if len(data) == 0 {
		return styles.HelpStyle.Render(NoData)
	}
	if len(data) == 1 {
		return RenderLineChart(data[0], width, height, caption+" ("+legends[0]+")")
	}
	width, height = clampChart(width, height)

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// RenderBarChart creates a horizontal bar chart. Each bar takes the palette
// color of its position.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, ansi.StringWidth(l))
	}

	barWidth := max(width-labelWidth-12, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		pad := strings.Repeat(" ", labelWidth-ansi.StringWidth(label))

		barLen := 0
		if !math.IsNaN(v) && v > 0 {
			barLen = int(v / maxVal * float64(barWidth))
		}
		bar := lipgloss.NewStyle().
			Foreground(styles.PaletteColor(i)).
			Render(strings.Repeat("█", barLen))

		lines = append(lines, pad+label+" │"+bar+" "+FormatValue(v))
	}

	return strings.Join(lines, "\n")
}

// FormatValue renders a metric value with two decimals, or "-" for a gap.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHeatmap draws one labelled row per entry of cells, each cell colored
// between lo and hi. NaN cells are left blank. hours labels the columns.
func RenderHeatmap(rows []string, hours []int, cells [][]float64, lo, hi float64) string {
	if len(rows) == 0 || len(hours) == 0 {
		return styles.HelpStyle.Render(NoData)
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, ansi.StringWidth(r))
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for _, h := range hours {
		fmt.Fprintf(&b, "%02d ", h)
	}
	b.WriteString("\n")

	for i, r := range rows {
		b.WriteString(strings.Repeat(" ", labelWidth-ansi.StringWidth(r)))
		b.WriteString(r)
		b.WriteString(" ")
		for j := range hours {
			v := math.NaN()
			if i < len(cells) && j < len(cells[i]) {
				v = cells[i][j]
			}
			b.WriteString(heatCell(v, lo, hi))
			b.WriteString(" ")
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func heatCell(v, lo, hi float64) string {
	if math.IsNaN(v) {
		return "  "
	}
	idx := 0
	if hi > lo {
		idx = int((v - lo) / (hi - lo) * float64(len(HeatmapBlocks)-1))
	}
	idx = max(0, min(idx, len(HeatmapBlocks)-1))
	block := strings.Repeat(string(HeatmapBlocks[idx]), 2)
	return styles.HeatStyle(v, lo, hi).Render(block)
}

// RenderHeatScale renders the legend for a heatmap spanning lo to hi.
func RenderHeatScale(lo, hi float64) string {
	var b strings.Builder
	b.WriteString(FormatValue(lo))
	b.WriteString(" ")
	steps := len(styles.HeatScale)
	for i := 0; i < steps; i++ {
		v := lo
		if steps > 1 {
			v = lo + (hi-lo)*float64(i)/float64(steps-1)
		}
		b.WriteString(styles.HeatStyle(v, lo, hi).Render("██"))
	}
	b.WriteString(" ")
	b.WriteString(FormatValue(hi))
	return b.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart. Gaps render as
// spaces.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		if math.IsNaN(val) {
			result.WriteRune(' ')
			continue
		}
		idx := 0
		if hi > lo {
			idx = int((val - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		result.WriteRune(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}

	return result.String()
}
