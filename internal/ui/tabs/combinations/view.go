package combinations

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// View renders the combinations tab.
func (m *Model) View() string {
	if m.revision != m.state.Revision() {
		m.refresh()
	}

	direction := "desc"
	if m.ascending {
		direction = "asc"
	}

	title := styles.TitleStyle.Render("Provider-Site Combinations")
	subtitle := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.HelpStyle.Render(fmt.Sprintf("%d combinations, sorted by ", len(m.combos))),
		styles.BadgeStyle.Render(m.sort.String()+" "+direction),
	)

	var body string
	if len(m.combos) == 0 {
		body = styles.HelpStyle.Render("No combinations in the current view.")
	} else {
		body = styles.CardStyle.Width(max(m.width-6, 60)).Render(m.table.View())
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body))
}
