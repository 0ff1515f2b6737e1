// Package heatmaps provides the hour by provider and site heatmap tab.
package heatmaps

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// topSites is how many sites the delay heatmap keeps, ranked by mean TPH.
const topSites = 10

type keyMap struct {
	Rows key.Binding
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Rows: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "providers/sites"),
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

// Model represents the heatmaps tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	rows     aggregate.Dimension
	revision uint64
	metric   models.Metric
	main     aggregate.Matrix
	delay    aggregate.Matrix
}

// New creates a new heatmaps model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		rows:     aggregate.ByProvider,
	}
}

// Init initializes the heatmaps tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the heatmaps tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Rows) {
			if m.rows == aggregate.ByProvider {
				m.rows = aggregate.BySite
			} else {
				m.rows = aggregate.ByProvider
			}
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) refresh() {
	view := m.state.View()
	m.metric = m.state.Metric()
	m.main = aggregate.Pivot(view, m.metric, m.rows)
	m.delay = delayByTopSites(view, topSites)
	m.revision = m.state.Revision()
}

// delayByTopSites pivots response delay for the n sites with the highest
// mean TPH, rows in rank order.
func delayByTopSites(view []models.MetricRecord, n int) aggregate.Matrix {
	ranked := aggregate.TopNByMean(
		aggregate.GroupBy(view, models.MetricTPHMedian, aggregate.BySite, aggregate.OrderByKey), n)
	if len(ranked) == 0 {
		return aggregate.Matrix{}
	}

	keep := make(models.CodeSet, len(ranked))
	for _, g := range ranked {
		keep[g.Key] = struct{}{}
	}
	subset := make([]models.MetricRecord, 0, len(view))
	for _, r := range view {
		if keep.Has(r.SiteCode) {
			subset = append(subset, r)
		}
	}

	pivot := aggregate.Pivot(subset, models.MetricAvgFirstRespDelay, aggregate.BySite)
	byKey := make(map[string][]float64, len(pivot.Rows))
	for i, row := range pivot.Rows {
		byKey[row] = pivot.Cells[i]
	}

	out := aggregate.Matrix{Hours: pivot.Hours}
	for _, g := range ranked {
		out.Rows = append(out.Rows, g.Key)
		out.Cells = append(out.Cells, byKey[g.Key])
	}
	return out
}

// SetSize sets the available size for the heatmaps tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Rows}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Rows},
		{m.keys.Up, m.keys.Down},
	}
}
