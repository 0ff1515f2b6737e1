package sites

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

const listWidth = 16

// View renders the sites tab.
func (m *Model) View() string {
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	var content string
	if len(m.sites) == 0 {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Sites"),
			styles.HelpStyle.Render("No sites in the current view."),
		)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Sites"),
			lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderDetail()),
		)
	}

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderList shows a window of the site list around the cursor.
func (m *Model) renderList() string {
	visible := max(m.height-6, 5)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(m.sites))

	var lines []string
	lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("%d sites", len(m.sites))))
	for i := start; i < end; i++ {
		if i == m.selected {
			lines = append(lines, styles.SelectedListItemStyle.Render("› "+m.sites[i]))
		} else {
			lines = append(lines, styles.ListItemStyle.Render(m.sites[i]))
		}
	}

	return styles.BlurredBorderStyle.Width(listWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetail() string {
	d := m.detail
	width := max(m.width-listWidth-14, 40)

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(fmt.Sprintf("Site %s", d.site)))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("%d records, hours %s", d.records, m.hours)))
	b.WriteString("\n\n")

	b.WriteString(styles.SubTitleStyle.Render(fmt.Sprintf("%-20s %8s %8s %8s %8s %8s", "Metric", "Mean", "Median", "Std", "Min", "Max")))
	b.WriteString("\n")
	for _, metric := range models.Metrics {
		s := d.summaries[metric]
		fmt.Fprintf(&b, "%-20s %8s %8s %8s %8s %8s\n",
			metric.Label(),
			components.FormatValue(s.Mean),
			components.FormatValue(s.Median),
			components.FormatValue(s.StdDev),
			components.FormatValue(s.Min),
			components.FormatValue(s.Max),
		)
	}
	b.WriteString("\n")

	lines := make([]components.Line, 0, len(d.series))
	for _, s := range d.series {
		lines = append(lines, components.Line{Label: s.Key, Values: s.Points(m.hours)})
	}
	b.WriteString(components.RenderMultiLineChart(lines, width-10, 8, m.metric.Label()+" by hour"))
	b.WriteString("\n\n")

	b.WriteString(styles.SubTitleStyle.Render("Providers at this site"))
	b.WriteString("\n")
	for _, g := range d.providers.Groups {
		fmt.Fprintf(&b, "%-8s mean TPH %8s over %2d hours  %s\n",
			g.Key, components.FormatValue(g.Mean), g.Count, m.sparkline(g.Key))
	}

	return styles.CardStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// sparkline draws the provider's line from the chart above in the same
// color.
func (m *Model) sparkline(provider string) string {
	for i, s := range m.detail.series {
		if s.Key == provider {
			spark := components.RenderSparkline(s.Points(m.hours), m.hours.Hours())
			return lipgloss.NewStyle().Foreground(components.SeriesColor(i)).Render(spark)
		}
	}
	return ""
}
