package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/capacity-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	m.syncHistory()

	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDatasetCard(),
		m.renderHistoryCard(),
		m.renderAboutCard(),
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, data provenance and build information")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) card(title string, rows ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, body...),
	)
}

func (m *Model) renderConfigCard() string {
	if m.config == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}
	notify := "off"
	if m.config.DesktopNotifications {
		notify = "on"
	}
	return m.card("Configuration",
		renderConfigRow("Data File", m.config.DataPath),
		renderConfigRow("Database", m.config.DatabasePath),
		renderConfigRow("Export Dir", m.config.ExportDir),
		renderConfigRow("Log File", m.config.LogPath),
		renderConfigRow("Log Level", m.config.LogLevel),
		renderConfigRow("Schema Policy", m.config.SchemaPolicy.String()),
		renderConfigRow("Reload Debounce", m.config.ReloadDebounce.String()),
		renderConfigRow("Notifications", notify),
	)
}

func (m *Model) renderDatasetCard() string {
	ds := m.state.Dataset()
	if ds == nil {
		return m.card("Dataset", styles.HelpStyle.Render("No dataset loaded yet"))
	}

	rows := []string{
		renderConfigRow("Path", ds.Path),
		renderConfigRow("Size", humanize.Bytes(uint64(max(ds.Size, 0)))),
		renderConfigRow("Modified", humanize.Time(ds.ModTime)),
		renderConfigRow("Loaded", humanize.Time(ds.LoadedAt)),
		renderConfigRow("Records", humanize.Comma(int64(ds.Len()))),
	}
	if n := ds.DroppedCount(); n > 0 {
		rows = append(rows, renderConfigRow("Dropped Rows", styles.WarningTextStyle.Render(humanize.Comma(int64(n)))))
	} else {
		rows = append(rows, renderConfigRow("Dropped Rows", "0"))
	}
	rows = append(rows, renderConfigRow("Generation", fmt.Sprintf("%d", m.state.Generation())))

	if m.source != nil {
		hits, misses := m.source.CacheStats()
		rows = append(rows,
			renderConfigRow("Cache", fmt.Sprintf("%d hits, %d misses", hits, misses)),
			renderConfigRow("Session", m.source.SessionID()),
		)
	}
	return m.card("Dataset", rows...)
}

func (m *Model) renderHistoryCard() string {
	if m.source == nil {
		return m.card("History", styles.HelpStyle.Render("History is not recorded"))
	}
	if m.historyErr != nil {
		return m.card("History", styles.ErrorTextStyle.Render("Failed to read history: "+m.historyErr.Error()))
	}

	rows := []string{styles.SubTitleStyle.Render("Loads")}
	if len(m.loads) == 0 {
		rows = append(rows, styles.HelpStyle.Render("none yet"))
	}
	for _, e := range m.loads {
		rows = append(rows, renderLoadEvent(e))
	}

	rows = append(rows, "", styles.SubTitleStyle.Render("Exports"))
	if len(m.exports) == 0 {
		rows = append(rows, styles.HelpStyle.Render("none this session"))
	}
	for _, e := range m.exports {
		rows = append(rows, fmt.Sprintf("%-16s %s",
			humanize.Time(e.Timestamp), styles.InfoTextStyle.Render(e.Metadata)))
	}
	return m.card("History", rows...)
}

func renderLoadEvent(e models.LoadEvent) string {
	when := fmt.Sprintf("%-16s", humanize.Time(e.Timestamp))
	if e.Failed() {
		return when + " " + styles.ErrorTextStyle.Render("failed: "+firstLine(e.Error))
	}
	line := fmt.Sprintf("%s %s rows", when, humanize.Comma(int64(e.Rows)))
	if e.Dropped > 0 {
		line += styles.WarningTextStyle.Render(fmt.Sprintf(", %d dropped", e.Dropped))
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (m *Model) renderAboutCard() string {
	return m.card("About Capacity Dashboard",
		renderConfigRow("Version", version.GetVersion()),
		renderConfigRow("Build Date", version.GetDate()),
		renderConfigRow("Git Commit", version.GetCommit()),
		renderConfigRow("Go Version", runtime.Version()),
		renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)
}

func renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
