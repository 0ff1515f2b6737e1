package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.Dataset() == nil {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	sections := []string{m.renderTitle()}
	if m.headline.DataPoints == 0 {
		sections = append(sections, styles.WarningTextStyle.Render("No records match the current filter."))
	} else {
		sections = append(sections, m.renderHeadline(), m.renderTrend())
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Overview")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s across hours %s", m.metric.Label(), m.hours))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func statBox(label, value string) string {
	return styles.StatBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.StatValueStyle.Render(value),
		styles.StatLabelStyle.Render(label),
	))
}

func (m *Model) renderHeadline() string {
	h := m.headline

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Sites", humanize.Comma(int64(h.Sites))),
		statBox("Providers", humanize.Comma(int64(h.Providers))),
		statBox("Data points", humanize.Comma(int64(h.DataPoints))),
		statBox("Hours covered", fmt.Sprintf("%d / 24", h.Hours)),
	)
	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Avg TPH", fmt.Sprintf("%.2f", h.AvgTPH)),
		statBox("Max TPH", fmt.Sprintf("%.2f", h.MaxTPH)),
		statBox("Avg delay (min)", fmt.Sprintf("%.2f", h.AvgDelay)),
		statBox("Min delay (min)", fmt.Sprintf("%.2f", h.MinDelay)),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Total count", humanize.Comma(h.TotalCount)),
		statBox("Avg count", fmt.Sprintf("%.1f", h.AvgCount)),
	)

	rows := []string{top, middle, bottom}
	if !h.LatestUpdate.IsZero() {
		rows = append(rows, styles.HelpStyle.Render("Latest update "+humanize.Time(h.LatestUpdate)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func splitLabel(d aggregate.Dimension) string {
	switch d {
	case aggregate.ByProvider:
		return "by provider"
	case aggregate.BySite:
		return "by site"
	default:
		return "overall"
	}
}

func (m *Model) renderTrend() string {
	width := max(m.width-20, 20)
	caption := fmt.Sprintf("%s by hour, %s (hours %s)", m.metric.Label(), splitLabel(m.split), m.hours)

	lines := make([]components.Line, 0, len(m.series))
	for _, s := range m.series {
		lines = append(lines, components.Line{Label: s.Key, Values: s.Points(m.hours)})
	}

	var chart string
	if m.split == aggregate.ByHour && len(lines) == 1 {
		chart = components.RenderLineChart(lines[0].Values, width, 10, caption)
	} else {
		chart = components.RenderMultiLineChart(lines, width, 10, caption)
	}

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("Hourly trend"))
	b.WriteString("\n")
	b.WriteString(chart)
	if len(lines) > components.MaxSeries {
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf(
			"Showing %d of %d lines; narrow the filter to see the rest", components.MaxSeries, len(lines))))
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("p: " + splitLabel(nextSplit(m.split))))

	return styles.CardStyle.Render(b.String())
}
