// Package info provides the info tab: configuration, dataset provenance,
// load history and build details.
package info

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/config"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

const (
	historyLimit = 8
	exportLimit  = 5

	// historyTTL throttles database reads while the tab is on screen.
	historyTTL = 2 * time.Second
)

// Source supplies session and history details. *services.Manager
// satisfies it.
type Source interface {
	DataPath() string
	SessionID() string
	CacheStats() (hits, misses int)
	LoadHistory(limit int) ([]models.LoadEvent, error)
	RecentExports(limit int) ([]models.SessionEvent, error)
}

type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	source   Source
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	loads      []models.LoadEvent
	exports    []models.SessionEvent
	historyErr error
	fetchedAt  time.Time
	now        func() time.Time
}

// New creates a new info model. cfg and src may be nil.
func New(state *app.State, cfg *config.Config, src Source) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		source:   src,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DatasetLoadedMsg, app.ExportResultMsg:
		m.fetchedAt = time.Time{}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			m.fetchHistory()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncHistory re-reads the history tables once historyTTL has passed.
func (m *Model) syncHistory() {
	if m.source == nil {
		return
	}
	if !m.fetchedAt.IsZero() && m.now().Sub(m.fetchedAt) < historyTTL {
		return
	}
	m.fetchHistory()
}

func (m *Model) fetchHistory() {
	if m.source == nil {
		return
	}
	m.fetchedAt = m.now()
	m.historyErr = nil

	loads, err := m.source.LoadHistory(historyLimit)
	if err != nil {
		m.historyErr = err
		return
	}
	exports, err := m.source.RecentExports(exportLimit)
	if err != nil {
		m.historyErr = err
		return
	}
	m.loads, m.exports = loads, exports
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
