package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/capacity-dashboard-tui/internal/filter"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabOverview shows headline numbers and hourly trends.
	TabOverview TabID = iota
	// TabHeatmaps shows entity by hour matrices.
	TabHeatmaps
	// TabComparisons compares providers and distributions.
	TabComparisons
	// TabSites drills into a single site.
	TabSites
	// TabCombinations lists provider-site pairs.
	TabCombinations
	// TabData shows the raw filtered records.
	TabData
	// TabFilters edits the selection.
	TabFilters
	// TabInfo shows configuration, load history and exports.
	TabInfo

	tabCount
)

var tabNames = []string{
	"Overview",
	"Heatmaps",
	"Comparisons",
	"Sites",
	"Combinations",
	"Data",
	"Filters",
	"Info",
}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that temporarily own the keyboard,
// such as while editing a text field. Global shortcuts are suspended then.
type InputCapturer interface {
	Capturing() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tabs    []key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Reload  key.Binding
	Metric  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	k := KeyMap{}
	for i := TabID(0); i < tabCount; i++ {
		n := fmt.Sprintf("%d", i+1)
		k.Tabs = append(k.Tabs, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(tabNames[i]))))
	}
	k.NextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab"))
	k.Reload = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload data"))
	k.Metric = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next metric"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs,
		{k.NextTab, k.PrevTab},
		{k.Reload, k.Metric, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 1)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	s.StatusBar = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	activeTab TabID
	tabs      []Tab

	state     *State
	services  *services.Manager
	exportDir string
	keymap    KeyMap
	styles    Styles

	spinner spinner.Model

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	exportDir := "."
	if mgr != nil {
		exportDir = mgr.ExportDir()
	}

	return &Model{
		activeTab: TabOverview,
		tabs:      make([]Tab, tabCount), // Placeholder - tabs will be set externally
		state:     NewState(),
		services:  mgr,
		exportDir: exportDir,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading dataset...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services), loadInitialDataCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case DatasetLoadedMsg, FilterAppliedMsg:
		// Every tab derives from the view, not just the visible one.
		cmds = append(cmds, m.updateAllTabs(msg)...)
		return m, tea.Batch(cmds...)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event)...)
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case InitialLoadMsg:
		cmds = append(cmds, m.handleInitialLoad(msg)...)
	case ReloadMsg:
		cmds = append(cmds, m.startReload())
	case ReloadDoneMsg:
		m.state.SetLoading(false)
		m.state.ClearLoadingNotification()
	case FilterChangedMsg:
		cmds = append(cmds, m.handleFilterChanged(msg)...)
	case ExportMsg:
		cmds = append(cmds, exportCmd(m.services, m.exportDir, msg, m.state.View()))
	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg))
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case ErrorMsg:
		text := msg.Error.Error()
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, notifyErrorCmd(text))
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleInitialLoad(msg InitialLoadMsg) []tea.Cmd {
	if !m.state.SetDataset(msg.Dataset, msg.Generation) {
		return nil
	}
	m.state.ClearLoadingNotification()

	if msg.Saved != nil {
		sel := filter.Sanitize(msg.Dataset, *msg.Saved)
		if len(sel.Providers) > 0 || len(sel.Sites) > 0 {
			// A saved selection that no longer resolves is simply dropped.
			_ = m.state.ApplyFilter(sel)
		}
	}

	cmds := m.datasetInstalled(msg.Dataset, msg.Generation)
	if n := msg.Dataset.DroppedCount(); n > 0 {
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("%s malformed rows skipped", humanize.Comma(int64(n)))))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) []tea.Cmd {
	switch e := event.(type) {
	case services.DatasetLoadedEvent:
		if !m.state.SetDataset(e.Dataset, e.Generation) {
			return nil
		}
		cmds := m.datasetInstalled(e.Dataset, e.Generation)
		cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Reloaded %s rows", humanize.Comma(int64(e.Dataset.Len())))))
		if n := e.Dataset.DroppedCount(); n > 0 {
			cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("%s malformed rows skipped", humanize.Comma(int64(n)))))
		}
		return cmds

	case services.LoadFailedEvent:
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Reload failed, keeping previous data: %v", e.Error))}

	case services.ErrorEvent:
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))}
	}
	return nil
}

// datasetInstalled tells every tab about a new dataset and the view that
// was derived from it.
func (m *Model) datasetInstalled(ds *models.Dataset, generation uint64) []tea.Cmd {
	sel := m.state.Selection()
	rows := len(m.state.View())
	return []tea.Cmd{
		func() tea.Msg { return DatasetLoadedMsg{Generation: generation, Rows: ds.Len()} },
		func() tea.Msg { return FilterAppliedMsg{Selection: sel, Rows: rows} },
	}
}

func (m *Model) startReload() tea.Cmd {
	if m.services == nil || m.state.IsLoading() {
		return nil
	}
	m.state.SetLoading(true)
	m.state.SetLoadingNotification("Reloading dataset...")
	return reloadCmd(m.services)
}

func (m *Model) handleFilterChanged(msg FilterChangedMsg) []tea.Cmd {
	if err := m.state.ApplyFilter(msg.Selection); err != nil {
		var rangeErr *filter.InvalidRangeError
		if errors.As(err, &rangeErr) {
			return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("%v (previous filter kept)", rangeErr))}
		}
		return []tea.Cmd{notifyErrorCmd(err.Error())}
	}

	sel := m.state.Selection()
	rows := len(m.state.View())
	cmds := []tea.Cmd{func() tea.Msg { return FilterAppliedMsg{Selection: sel, Rows: rows} }}
	if m.services != nil {
		cmds = append(cmds, saveFilterCmd(m.services, sel))
	}
	return cmds
}

func (m *Model) handleExportResult(msg ExportResultMsg) tea.Cmd {
	if msg.Error != nil {
		return notifyErrorCmd(fmt.Sprintf("Export failed: %v", msg.Error))
	}
	return notifySuccessCmd(fmt.Sprintf("Exported %s %s to %s",
		humanize.Comma(int64(msg.Rows)), msg.Kind, filepath.Base(msg.Path)))
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-6)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) activeTabCapturing() bool {
	if int(m.activeTab) >= len(m.tabs) || m.tabs[m.activeTab] == nil {
		return false
	}
	c, ok := m.tabs[m.activeTab].(InputCapturer)
	return ok && c.Capturing()
}

// handleKeyMsg handles global shortcuts. handled reports whether the key
// was consumed and must not reach the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.activeTabCapturing() {
		return nil, false
	}

	for i, binding := range m.keymap.Tabs {
		if key.Matches(msg, binding) && i < len(m.tabs) {
			m.activeTab = TabID(i)
			m.updateTabSizes()
			return nil, true
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.activeTab = TabID((int(m.activeTab) + 1) % len(m.tabs))
			m.updateTabSizes()
		}
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.activeTab = TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs))
			m.updateTabSizes()
		}
		return nil, true

	case key.Matches(msg, m.keymap.Reload):
		return m.startReload(), true

	case key.Matches(msg, m.keymap.Metric):
		if m.state.Dataset() == nil {
			return nil, true
		}
		sel := m.state.Selection()
		sel.Metric = sel.Metric.Next()
		return ChangeFilter(sel), true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}
	}

	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
		b.WriteString(m.renderStatusBar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-lipgloss.Width(overlay))/2, 0)
	overlayWidth := lipgloss.Width(overlay)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i := range m.tabs {
		name := TabID(i).String()
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

// renderStatusBar summarizes the dataset and the active filter.
func (m *Model) renderStatusBar() string {
	ds := m.state.Dataset()
	if ds == nil {
		return m.styles.StatusBar.Render("No dataset loaded")
	}

	sel := m.state.Selection()
	parts := []string{
		filepath.Base(ds.Path),
		fmt.Sprintf("%s/%s rows", humanize.Comma(int64(len(m.state.View()))), humanize.Comma(int64(ds.Len()))),
		sel.Mode.String(),
		"hours " + sel.Hours.String(),
		sel.Metric.Label(),
	}
	if !ds.ModTime.IsZero() {
		parts = append(parts, "modified "+humanize.Time(ds.ModTime))
	}
	return m.styles.StatusBar.Width(m.width).Render(strings.Join(parts, " · "))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 3

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"), "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, fmt.Sprintf("  1-%d        Switch tabs", len(m.tabs)))
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  r          Reload data file")
	lines = append(lines, "  m          Next metric")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.activeTab)))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not yet implemented."),
	)
	return m.styles.Content.Render(content)
}
