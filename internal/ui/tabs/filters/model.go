// Package filters provides the tab that edits the provider, site and hour
// selection.
package filters

import (
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/filter"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// pane is the code list the cursor is in.
type pane int

const (
	paneProviders pane = iota
	paneSites
)

type keyMap struct {
	Mode   key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Hours  key.Binding
	Reset  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Mode: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter mode"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "providers"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "sites"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		None: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		Hours: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hour range"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the filters tab state.
type Model struct {
	state  *app.State
	keys   keyMap
	width  int
	height int

	source    *models.Dataset
	providers []string
	sites     []string
	pane      pane
	cursor    [2]int

	editing bool
	input   textinput.Model
}

// New creates a new filters model.
func New(state *app.State) *Model {
	input := textinput.New()
	input.Placeholder = "0-23"
	input.CharLimit = 7
	input.Width = 10
	input.Prompt = "hours: "
	input.PromptStyle = styles.FocusedStyle

	return &Model{
		state: state,
		keys:  defaultKeyMap(),
		input: input,
	}
}

// Init initializes the filters tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the hour input owns the keyboard.
func (m *Model) Capturing() bool {
	return m.editing
}

// Update handles messages for the filters tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if _, ok := msg.(app.DatasetLoadedMsg); ok {
		m.syncCodes()
		return m, nil
	}
	if m.editing {
		return m, m.updateInput(msg)
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKeyMsg(keyMsg)
	}
	return m, nil
}

// syncCodes rebuilds the code lists when the dataset has been replaced.
func (m *Model) syncCodes() {
	ds := m.state.Dataset()
	if ds == m.source {
		return
	}
	m.source = ds
	m.providers = append([]string(nil), filter.Providers(ds)...)
	slices.Sort(m.providers)
	m.sites = append([]string(nil), filter.Sites(ds)...)
	slices.Sort(m.sites)
	m.cursor[paneProviders] = min(m.cursor[paneProviders], max(len(m.providers)-1, 0))
	m.cursor[paneSites] = min(m.cursor[paneSites], max(len(m.sites)-1, 0))
}

func (m *Model) codes(p pane) []string {
	if p == paneSites {
		return m.sites
	}
	return m.providers
}

// editable reports whether the user picks codes in p under the current
// mode, rather than seeing codes implied by the other list.
func (m *Model) editable(p pane) bool {
	switch m.state.Selection().Mode {
	case models.ModeProviderFocus:
		return p == paneProviders
	case models.ModeSiteFocus:
		return p == paneSites
	default:
		return true
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.state.Dataset() == nil {
		return nil
	}
	m.syncCodes()

	codes := m.codes(m.pane)
	switch {
	case key.Matches(msg, m.keys.Mode):
		return m.changeMode(m.state.Selection().Mode.Next())

	case key.Matches(msg, m.keys.Up):
		m.cursor[m.pane] = max(m.cursor[m.pane]-1, 0)

	case key.Matches(msg, m.keys.Down):
		m.cursor[m.pane] = min(m.cursor[m.pane]+1, max(len(codes)-1, 0))

	case key.Matches(msg, m.keys.Left):
		m.pane = paneProviders

	case key.Matches(msg, m.keys.Right):
		m.pane = paneSites

	case key.Matches(msg, m.keys.Toggle):
		if len(codes) == 0 || !m.editable(m.pane) {
			return nil
		}
		return m.setCodes(m.pane, toggle(m.selected(m.pane), codes[m.cursor[m.pane]]))

	case key.Matches(msg, m.keys.All):
		if !m.editable(m.pane) {
			return nil
		}
		return m.setCodes(m.pane, slices.Clone(codes))

	case key.Matches(msg, m.keys.None):
		if !m.editable(m.pane) {
			return nil
		}
		return m.setCodes(m.pane, nil)

	case key.Matches(msg, m.keys.Reset):
		sel := m.state.Selection()
		next := filter.Defaults(m.state.Dataset(), sel.Mode)
		next.Metric = sel.Metric
		return app.ChangeFilter(next)

	case key.Matches(msg, m.keys.Hours):
		m.editing = true
		m.input.SetValue(m.state.Selection().Hours.String())
		m.input.CursorEnd()
		m.input.Focus()
		return textinput.Blink
	}
	return nil
}

// changeMode switches to mode with that mode's default codes, keeping the
// hour range and metric.
func (m *Model) changeMode(mode models.FilterMode) tea.Cmd {
	sel := m.state.Selection()
	next := filter.Defaults(m.state.Dataset(), mode)
	next.Hours = sel.Hours
	next.Metric = sel.Metric
	return app.ChangeFilter(next)
}

func (m *Model) selected(p pane) []string {
	sel := m.state.Selection()
	if p == paneSites {
		return sel.Sites
	}
	return sel.Providers
}

func (m *Model) setCodes(p pane, codes []string) tea.Cmd {
	sel := m.state.Selection()
	if p == paneSites {
		sel.Sites = codes
	} else {
		sel.Providers = codes
	}
	return app.ChangeFilter(sel)
}

func toggle(codes []string, code string) []string {
	if i := slices.Index(codes, code); i >= 0 {
		return slices.Delete(slices.Clone(codes), i, i+1)
	}
	return append(slices.Clone(codes), code)
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.stopEditing()
			return nil
		case key.Matches(keyMsg, m.keys.Submit):
			value := m.input.Value()
			m.stopEditing()
			return m.submitHours(value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
}

// submitHours applies a typed hour range. Out-of-order or out-of-day
// ranges still go to the app so the rejection follows the same path as
// any other invalid filter.
func (m *Model) submitHours(value string) tea.Cmd {
	hours, err := filter.ParseHourRange(value)
	var rangeErr *filter.InvalidRangeError
	switch {
	case errors.As(err, &rangeErr):
		hours = models.HourRange{Min: rangeErr.Min, Max: rangeErr.Max}
	case err != nil:
		return app.Notify(app.NotificationError, "Hour range %q: %v", value, err)
	}

	sel := m.state.Selection()
	sel.Hours = hours
	return app.ChangeFilter(sel)
}

// SetSize sets the available size for the filters tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Mode, m.keys.Toggle, m.keys.Hours}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Mode, m.keys.Hours, m.keys.Reset},
		{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right},
		{m.keys.Toggle, m.keys.All, m.keys.None},
	}
}
