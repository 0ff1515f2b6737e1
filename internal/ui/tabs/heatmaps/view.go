package heatmaps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// View renders the heatmaps tab.
func (m *Model) View() string {
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	rowsLabel := "provider"
	if m.rows == aggregate.BySite {
		rowsLabel = "site"
	}

	sections := []string{
		styles.TitleStyle.Render("Heatmaps"),
		m.renderMatrix(
			fmt.Sprintf("%s by %s and hour (mean)", m.metric.Label(), rowsLabel),
			m.main,
		),
		m.renderMatrix(
			fmt.Sprintf("Response delay, top %d sites by mean TPH", topSites),
			m.delay,
		),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderMatrix(title string, mx aggregate.Matrix) string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(title))
	b.WriteString("\n")

	lo, hi, ok := mx.Bounds()
	if !ok {
		b.WriteString(styles.HelpStyle.Render(components.NoData))
		return styles.CardStyle.Render(b.String())
	}

	b.WriteString(components.RenderHeatmap(mx.Rows, mx.Hours, mx.Cells, lo, hi))
	b.WriteString("\n\n")
	b.WriteString(components.RenderHeatScale(lo, hi))
	return styles.CardStyle.Render(b.String())
}
