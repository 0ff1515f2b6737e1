// Package data provides the raw filtered records tab.
package data

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// sortColumn orders the table. sortFile keeps the order of the data file.
type sortColumn int

const (
	sortFile sortColumn = iota
	sortProvider
	sortSite
	sortHour
	sortTPH
	sortCount
	sortDelay
	sortColumnCount
)

func (c sortColumn) String() string {
	switch c {
	case sortProvider:
		return "provider"
	case sortSite:
		return "site"
	case sortHour:
		return "hour"
	case sortTPH:
		return "tph_median"
	case sortCount:
		return "count_sum"
	case sortDelay:
		return "delay"
	default:
		return "file order"
	}
}

func (c sortColumn) compare(a, b models.MetricRecord) int {
	switch c {
	case sortProvider:
		return strings.Compare(a.ProviderCode, b.ProviderCode)
	case sortSite:
		return strings.Compare(a.SiteCode, b.SiteCode)
	case sortHour:
		return cmp.Compare(a.Hour, b.Hour)
	case sortTPH:
		return cmp.Compare(a.TPHMedian, b.TPHMedian)
	case sortCount:
		return cmp.Compare(a.CountSum, b.CountSum)
	case sortDelay:
		return cmp.Compare(a.AvgFirstRespDelayMinute, b.AvgFirstRespDelayMinute)
	default:
		return 0
	}
}

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

// Model represents the data tab state.
type Model struct {
	state  *app.State
	table  table.Model
	keys   keyMap
	width  int
	height int

	sort       sortColumn
	descending bool
	revision   uint64
	rows       []models.MetricRecord
	metric     models.Metric
	summary    aggregate.Stats
}

// New creates a new data model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Provider", Width: 8},
			{Title: "Site", Width: 10},
			{Title: "Hour", Width: 4},
			{Title: "Measure", Width: 10},
			{Title: "TPH", Width: 9},
			{Title: "Count", Width: 8},
			{Title: "Delay", Width: 8},
			{Title: "Last Updated", Width: 19},
		}),
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
	}
}

// Init initializes the data tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the data tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Sort):
			m.sort = (m.sort + 1) % sortColumnCount
			m.refresh()
		case key.Matches(msg, m.keys.Direction):
			m.descending = !m.descending
			m.refresh()
		case key.Matches(msg, m.keys.Export):
			if len(m.rows) == 0 {
				return m, app.Notify(app.NotificationWarning, "Nothing to export")
			}
			return m, app.RequestExport(app.ExportMsg{Kind: app.ExportRecords})
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	view := m.state.View()
	m.metric = m.state.Metric()
	m.summary = aggregate.Summary(view, m.metric)
	m.revision = m.state.Revision()

	m.rows = slices.Clone(view)
	if m.sort != sortFile {
		slices.SortStableFunc(m.rows, func(a, b models.MetricRecord) int {
			if m.descending {
				return m.sort.compare(b, a)
			}
			return m.sort.compare(a, b)
		})
	} else if m.descending {
		slices.Reverse(m.rows)
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		updated := ""
		if !r.LastUpdated.IsZero() {
			updated = r.LastUpdated.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, table.Row{
			r.ProviderCode,
			r.SiteCode,
			fmt.Sprintf("%02d", r.Hour),
			r.Measure,
			components.FormatValue(r.TPHMedian),
			fmt.Sprintf("%d", r.CountSum),
			components.FormatValue(r.AvgFirstRespDelayMinute),
			updated,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// SetSize sets the available size for the data tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-12, 3))
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
		{km.LineUp, km.LineDown, km.GotoTop, km.GotoBottom},
	}
}
