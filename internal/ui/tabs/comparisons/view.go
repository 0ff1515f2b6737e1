package comparisons

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// View renders the comparisons tab.
func (m *Model) View() string {
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	sections := []string{styles.TitleStyle.Render("Comparisons")}
	if m.providers.Len() == 0 {
		sections = append(sections, styles.HelpStyle.Render(components.NoData))
	} else {
		sections = append(sections,
			m.renderProviders(),
			m.renderTopSites(),
			m.renderCorrelation(),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderProviders() string {
	labels := m.providers.Keys()
	means := make([]float64, len(m.providers.Groups))
	for i, g := range m.providers.Groups {
		means[i] = g.Mean
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers("Provider", "Count", "Mean", "Median", "Std", "Min", "Max").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle.BorderBottom(false).Padding(0, 1)
			}
			return styles.TableCellStyle
		})
	for _, g := range m.providers.Groups {
		t.Row(
			g.Key,
			fmt.Sprintf("%d", g.Count),
			components.FormatValue(g.Mean),
			components.FormatValue(g.Median),
			components.FormatValue(g.StdDev),
			components.FormatValue(g.Min),
			components.FormatValue(g.Max),
		)
	}

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(m.metric.Label() + " by provider (mean)"))
	b.WriteString("\n")
	b.WriteString(components.RenderBarChart(means, labels, min(m.width-10, 80)))
	b.WriteString("\n\n")
	b.WriteString(t.Render())
	return styles.CardStyle.Render(b.String())
}

func (m *Model) renderTopSites() string {
	rank, stat := "sum", func(g aggregate.Group) float64 { return g.Sum }
	if m.byMean {
		rank, stat = "mean", func(g aggregate.Group) float64 { return g.Mean }
	}

	labels := make([]string, len(m.sites))
	values := make([]float64, len(m.sites))
	for i, g := range m.sites {
		labels[i] = fmt.Sprintf("%2d. %s", i+1, g.Key)
		values[i] = stat(g)
	}

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(fmt.Sprintf("Top %d sites by %s of %s", m.top, rank, m.metric.Label())))
	b.WriteString("\n")
	b.WriteString(components.RenderBarChart(values, labels, min(m.width-10, 80)))
	return styles.CardStyle.Render(b.String())
}

func (m *Model) renderCorrelation() string {
	var value string
	if m.correlated {
		value = styles.CorrelationStyle(m.correlation).Render(fmt.Sprintf("r = %+.3f", m.correlation))
	} else {
		value = styles.HelpStyle.Render("n/a (needs two or more records with varying values)")
	}

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("TPH vs response delay"))
	b.WriteString("\n")
	b.WriteString(value)
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(describeCorrelation(m.correlation, m.correlated)))
	return styles.CardStyle.Render(b.String())
}

func describeCorrelation(r float64, ok bool) string {
	if !ok {
		return ""
	}
	strength := "weak"
	switch {
	case r >= 0.5 || r <= -0.5:
		strength = "strong"
	case r >= 0.2 || r <= -0.2:
		strength = "moderate"
	}
	direction := "busier hours respond faster"
	if r > 0 {
		direction = "busier hours respond slower"
	}
	return fmt.Sprintf("%s correlation: %s", strength, direction)
}
