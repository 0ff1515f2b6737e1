// Package overview provides the headline numbers and hourly trend tab.
package overview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	Split key.Binding
	Up    key.Binding
	Down  key.Binding
}

// defaultKeyMap returns the default key bindings for the overview tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Split: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "split lines"),
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

// splits is the cycle of the Split key: one overall line, one per
// provider, one per site.
var splits = []aggregate.Dimension{aggregate.ByHour, aggregate.ByProvider, aggregate.BySite}

// Model represents the overview tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	split    aggregate.Dimension
	revision uint64
	headline aggregate.Headline
	series   []aggregate.Series
	metric   models.Metric
	hours    models.HourRange
}

// New creates a new overview model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading dataset..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		split:    aggregate.ByHour,
	}
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the overview tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case spinner.TickMsg:
		if m.state.Dataset() == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Split) {
			m.split = nextSplit(m.split)
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func nextSplit(d aggregate.Dimension) aggregate.Dimension {
	for i, s := range splits {
		if s == d {
			return splits[(i+1)%len(splits)]
		}
	}
	return splits[0]
}

// refresh recomputes the cached aggregates from the current view.
func (m *Model) refresh() {
	view := m.state.View()
	m.metric = m.state.Metric()
	m.hours = m.state.Spec().Hours
	m.headline = aggregate.ComputeHeadline(view)
	m.series = aggregate.SeriesBy(view, m.metric, m.split)
	m.revision = m.state.Revision()
}

// SetSize sets the available size for the overview tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Split}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Split},
		{m.keys.Up, m.keys.Down},
	}
}
