// Package combinations provides the provider-site combination table tab.
package combinations

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

type keyMap struct {
	Sort      key.Binding
	Direction key.Binding
	Export    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Direction: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "asc/desc"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
	}
}

// Model represents the combinations tab state.
type Model struct {
	state  *app.State
	table  table.Model
	keys   keyMap
	width  int
	height int

	sort      aggregate.CombinationSort
	ascending bool
	revision  uint64
	combos    []aggregate.Combination
}

// New creates a new combinations model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle.Inherit(s.Header)
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
		sort:  aggregate.SortTPHAvg,
	}
}

// columns sizes the table for width. The site column absorbs any slack.
func columns(width int) []table.Column {
	site := min(max(width-88, 8), 20)
	return []table.Column{
		{Title: "Provider", Width: 8},
		{Title: "Site", Width: site},
		{Title: "Hours", Width: 6},
		{Title: "TPH Avg", Width: 9},
		{Title: "TPH Max", Width: 9},
		{Title: "TPH Std", Width: 9},
		{Title: "Count", Width: 10},
		{Title: "Delay Avg", Width: 9},
		{Title: "Delay Min", Width: 9},
	}
}

// Init initializes the combinations tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the combinations tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Sort):
			m.sort = m.sort.Next()
			m.refresh()
		case key.Matches(msg, m.keys.Direction):
			m.ascending = !m.ascending
			m.refresh()
		case key.Matches(msg, m.keys.Export):
			if len(m.combos) == 0 {
				return m, app.Notify(app.NotificationWarning, "Nothing to export")
			}
			return m, app.RequestExport(app.ExportMsg{
				Kind:      app.ExportCombinations,
				Sort:      m.sort,
				Ascending: m.ascending,
			})
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	m.combos = aggregate.Combinations(m.state.View(), m.sort, m.ascending)
	m.revision = m.state.Revision()

	rows := make([]table.Row, 0, len(m.combos))
	for _, c := range m.combos {
		rows = append(rows, table.Row{
			c.Provider,
			c.Site,
			fmt.Sprintf("%d", c.TPH.Count),
			components.FormatValue(c.TPH.Mean),
			components.FormatValue(c.TPH.Max),
			components.FormatValue(c.TPH.StdDev),
			humanize.Comma(int64(c.Count.Sum)),
			components.FormatValue(c.Delay.Mean),
			components.FormatValue(c.Delay.Min),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// SetSize sets the available size for the combinations tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-10, 3))
	m.table.SetColumns(columns(width))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Sort, m.keys.Direction, m.keys.Export}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	km := m.table.KeyMap
	return [][]key.Binding{
		{m.keys.Sort, m.keys.Direction, m.keys.Export},
		{km.LineUp, km.LineDown, km.PageUp, km.PageDown},
	}
}
