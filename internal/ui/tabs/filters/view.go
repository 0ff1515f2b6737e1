package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

const listWidth = 24

// View renders the filters tab.
func (m *Model) View() string {
	m.syncCodes()
	if m.state.Dataset() == nil {
		return styles.DocStyle.Render(styles.HelpStyle.Render("Waiting for the dataset..."))
	}

	sel := m.state.Selection()
	spec := m.state.Spec()

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.BadgeStyle.Render(sel.Mode.String()),
		"  ",
		styles.HelpStyle.Render(fmt.Sprintf("hours %s  metric %s  %s of %s records",
			spec.Hours,
			spec.Metric.Label(),
			humanize.Comma(int64(len(m.state.View()))),
			humanize.Comma(int64(m.state.Dataset().Len())),
		)),
	)

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList("Providers", paneProviders, sel.Providers, spec.Providers),
		" ",
		m.renderList("Sites", paneSites, sel.Sites, spec.Sites),
	)

	sections := []string{styles.TitleStyle.Render("Filters"), header, "", lists}
	if m.editing {
		sections = append(sections, styles.FocusedBorderStyle.Render(m.input.View()))
	} else {
		sections = append(sections, styles.HelpStyle.Render(modeHint(sel.Mode)))
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func modeHint(mode models.FilterMode) string {
	switch mode {
	case models.ModeProviderFocus:
		return "Pick providers; their sites are included automatically. f: change mode"
	case models.ModeSiteFocus:
		return "Pick sites; providers seen there are included automatically. f: change mode"
	default:
		return "Pick providers and sites independently. f: change mode"
	}
}

// renderList draws one code list. Picked codes are checked; codes pulled
// in by the other list are marked with a dot.
func (m *Model) renderList(title string, p pane, picked []string, effective models.CodeSet) string {
	codes := m.codes(p)
	editable := m.editable(p)
	focused := m.pane == p

	visible := max(m.height-10, 5)
	cursor := m.cursor[p]
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(codes))

	heading := fmt.Sprintf("%s (%d/%d)", title, len(effective), len(codes))
	if !editable {
		heading += " implied"
	}

	lines := []string{styles.SubTitleStyle.Render(heading)}
	for i := start; i < end; i++ {
		code := codes[i]
		var mark string
		switch {
		case slices.Contains(picked, code) && editable:
			mark = styles.CheckedStyle.Render("[x]")
		case effective.Has(code):
			mark = styles.InfoTextStyle.Render("[·]")
		default:
			mark = styles.BlurredStyle.Render("[ ]")
		}

		line := mark + " " + code
		if focused && i == cursor {
			line = styles.SelectedListItemStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if len(codes) == 0 {
		lines = append(lines, styles.HelpStyle.Render("none"))
	}

	border := styles.BlurredBorderStyle
	if focused {
		border = styles.FocusedBorderStyle
	}
	return border.Width(listWidth).Render(strings.Join(lines, "\n"))
}
