package data

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// View renders the data tab.
func (m *Model) View() string {
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	direction := "asc"
	if m.descending {
		direction = "desc"
	}

	title := styles.TitleStyle.Render("Data")
	subtitle := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.HelpStyle.Render(fmt.Sprintf("%s records, sorted by ", humanize.Comma(int64(len(m.rows))))),
		styles.BadgeStyle.Render(m.sort.String()+" "+direction),
	)

	if len(m.rows) == 0 {
		return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, subtitle, "", styles.HelpStyle.Render("No records match the current filter.")))
	}

	table := styles.CardStyle.Width(max(m.width-6, 60)).Render(m.table.View())
	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", table, m.renderSummary()))
}

func (m *Model) renderSummary() string {
	s := m.summary
	return styles.HelpStyle.Render(fmt.Sprintf(
		"%s  n=%d  sum=%s  mean=%s  median=%s  min=%s  max=%s",
		m.metric.Label(), s.Count,
		components.FormatValue(s.Sum),
		components.FormatValue(s.Mean),
		components.FormatValue(s.Median),
		components.FormatValue(s.Min),
		components.FormatValue(s.Max),
	))
}
