// Package comparisons provides the provider and site comparison tab.
package comparisons

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// topSizes is the cycle of the Top key.
var topSizes = []int{5, 10, 20}

type keyMap struct {
	Top   key.Binding
	Order key.Binding
	Up    key.Binding
	Down  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Top: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "top 5/10/20"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rank by sum/mean"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the comparisons tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	top      int
	byMean   bool
	revision uint64
	metric   models.Metric

	providers   aggregate.Aggregation
	sites       []aggregate.Group
	correlation float64
	correlated  bool
}

// New creates a new comparisons model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		top:      topSizes[1],
	}
}

// Init initializes the comparisons tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the comparisons tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Top):
			m.top = nextTop(m.top)
			m.refresh()
		case key.Matches(msg, m.keys.Order):
			m.byMean = !m.byMean
			m.refresh()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func nextTop(n int) int {
	for i, size := range topSizes {
		if size == n {
			return topSizes[(i+1)%len(topSizes)]
		}
	}
	return topSizes[0]
}

func (m *Model) refresh() {
	view := m.state.View()
	m.metric = m.state.Metric()
	m.providers = aggregate.GroupBy(view, m.metric, aggregate.ByProvider, aggregate.OrderByKey)

	sites := aggregate.GroupBy(view, m.metric, aggregate.BySite, aggregate.OrderByKey)
	if m.byMean {
		m.sites = aggregate.TopNByMean(sites, m.top)
	} else {
		m.sites = aggregate.TopN(sites, m.top)
	}

	m.correlation, m.correlated = aggregate.Correlation(view, models.MetricTPHMedian, models.MetricAvgFirstRespDelay)
	m.revision = m.state.Revision()
}

// SetSize sets the available size for the comparisons tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Top, m.keys.Order}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Top, m.keys.Order},
		{m.keys.Up, m.keys.Down},
	}
}
