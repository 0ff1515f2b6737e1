// Package sites provides the per-site drill-down tab.
package sites

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

type keyMap struct {
	NextSite  key.Binding
	PrevSite  key.Binding
	FirstSite key.Binding
	LastSite  key.Binding
	Focus     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextSite: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next site"),
		),
		PrevSite: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev site"),
		),
		FirstSite: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first site"),
		),
		LastSite: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last site"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "filter to site"),
		),
	}
}

// detail is the drill-down for the selected site.
type detail struct {
	site      string
	records   int
	summaries map[models.Metric]aggregate.Stats
	series    []aggregate.Series
	providers aggregate.Aggregation
}

// Model represents the sites tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	revision uint64
	metric   models.Metric
	hours    models.HourRange
	sites    []string
	selected int
	detail   detail
}

// New creates a new sites model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the sites tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sites tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.FilterAppliedMsg:
		m.refresh()

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.sites)
	switch {
	case key.Matches(msg, m.keys.NextSite):
		if count > 0 {
			m.selected = (m.selected + 1) % count
		}
	case key.Matches(msg, m.keys.PrevSite):
		if count > 0 {
			m.selected = (m.selected - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstSite):
		m.selected = 0
	case key.Matches(msg, m.keys.LastSite):
		m.selected = max(count-1, 0)
	case key.Matches(msg, m.keys.Focus):
		if count == 0 {
			return nil
		}
		sel := m.state.Selection()
		sel.Mode = models.ModeSiteFocus
		sel.Sites = []string{m.sites[m.selected]}
		return app.ChangeFilter(sel)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	m.buildDetail()
	return nil
}

// refresh rebuilds the site list, keeping the cursor on the same site
// when it survives the new view.
func (m *Model) refresh() {
	var current string
	if m.selected < len(m.sites) {
		current = m.sites[m.selected]
	}

	view := m.state.View()
	seen := make(models.CodeSet)
	m.sites = m.sites[:0]
	for _, r := range view {
		if !seen.Has(r.SiteCode) {
			seen[r.SiteCode] = struct{}{}
			m.sites = append(m.sites, r.SiteCode)
		}
	}
	slices.Sort(m.sites)

	m.selected = 0
	if i := slices.Index(m.sites, current); i >= 0 {
		m.selected = i
	}
	m.metric = m.state.Metric()
	m.hours = m.state.Spec().Hours
	m.revision = m.state.Revision()
	m.buildDetail()
}

func (m *Model) buildDetail() {
	if len(m.sites) == 0 {
		m.detail = detail{}
		return
	}
	site := m.sites[m.selected]

	var records []models.MetricRecord
	for _, r := range m.state.View() {
		if r.SiteCode == site {
			records = append(records, r)
		}
	}

	d := detail{
		site:      site,
		records:   len(records),
		summaries: make(map[models.Metric]aggregate.Stats, len(models.Metrics)),
		series:    aggregate.SeriesBy(records, m.metric, aggregate.ByProvider),
		providers: aggregate.GroupBy(records, models.MetricTPHMedian, aggregate.ByProvider, aggregate.OrderBySumDesc),
	}
	for _, metric := range models.Metrics {
		d.summaries[metric] = aggregate.Summary(records, metric)
	}
	m.detail = d
}

// SetSize sets the available size for the sites tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextSite, m.keys.PrevSite, m.keys.Focus}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextSite, m.keys.PrevSite},
		{m.keys.FirstSite, m.keys.LastSite},
		{m.keys.Focus},
	}
}
