package app

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/filter"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services"
)

// fakeTab records the messages it receives.
type fakeTab struct {
	msgs      []tea.Msg
	capturing bool
	width     int
}

func (f *fakeTab) Init() tea.Cmd { return nil }

func (f *fakeTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	f.msgs = append(f.msgs, msg)
	return f, nil
}

func (f *fakeTab) View() string              { return "fake tab" }
func (f *fakeTab) SetSize(width, _ int)      { f.width = width }
func (f *fakeTab) ShortHelp() []key.Binding  { return nil }
func (f *fakeTab) FullHelp() [][]key.Binding { return nil }
func (f *fakeTab) Capturing() bool           { return f.capturing }

func (f *fakeTab) received(match func(tea.Msg) bool) bool {
	for _, m := range f.msgs {
		if match(m) {
			return true
		}
	}
	return false
}

func newFakeTabs(model *Model) []*fakeTab {
	fakes := make([]*fakeTab, tabCount)
	tabs := make([]Tab, tabCount)
	for i := range fakes {
		fakes[i] = &fakeTab{}
		tabs[i] = fakes[i]
	}
	model.SetTabs(tabs)
	return fakes
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.GetState() == nil {
		t.Error("State should be initialized")
	}
	if model.GetActiveTab() != TabOverview {
		t.Error("Default tab should be Overview")
	}
	if len(model.tabs) != int(tabCount) {
		t.Errorf("Should have %d tab placeholders, got %d", tabCount, len(model.tabs))
	}
	if model.exportDir != "." {
		t.Errorf("exportDir = %q, want .", model.exportDir)
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if len(model.state.GetNotifications()) != 1 {
		t.Error("Init should show the loading notification")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	fakes := newFakeTabs(model)

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	if fakes[3].width != 100 {
		t.Error("every tab should be resized")
	}
}

func TestModel_InitialLoadRestoresSavedFilter(t *testing.T) {
	model := NewModel(nil)
	saved := models.Selection{
		Mode:      models.ModeCustom,
		Providers: []string{"QL2", "GONE"},
		Sites:     []string{"S1"},
		Hours:     models.FullDay,
		Metric:    models.MetricAvgFirstRespDelay,
	}

	cmds := model.handleInitialLoad(InitialLoadMsg{Dataset: testDataset(), Saved: &saved})
	if len(cmds) == 0 {
		t.Fatal("expected commands announcing the dataset")
	}

	sel := model.state.Selection()
	if sel.Mode != models.ModeCustom || len(sel.Providers) != 1 || sel.Providers[0] != "QL2" {
		t.Errorf("saved selection should be restored without unknown codes, got %+v", sel)
	}
	if sel.Metric != models.MetricAvgFirstRespDelay {
		t.Errorf("Metric = %q", sel.Metric)
	}
	if len(model.state.View()) != 1 {
		t.Errorf("len(View) = %d, want 1", len(model.state.View()))
	}
	if _, ok := cmds[0]().(DatasetLoadedMsg); !ok {
		t.Error("first command should announce the dataset")
	}
}

func TestModel_InitialLoadWarnsAboutDroppedRows(t *testing.T) {
	model := NewModel(nil)
	ds := testDataset()
	ds.Dropped = []error{errors.New("line 3: bad hour")}

	cmds := model.handleInitialLoad(InitialLoadMsg{Dataset: ds})

	found := false
	for _, cmd := range cmds {
		if n, ok := cmd().(AddNotificationMsg); ok && n.Type == NotificationWarning {
			found = true
		}
	}
	if !found {
		t.Error("dropped rows should produce a warning")
	}
}

func TestModel_FilterChanged(t *testing.T) {
	model := NewModel(nil)
	model.state.SetDataset(testDataset(), 0)

	sel := models.Selection{Mode: models.ModeSiteFocus, Sites: []string{"S2"}, Hours: models.FullDay}
	cmds := model.handleFilterChanged(FilterChangedMsg{Selection: sel})
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command without services, got %d", len(cmds))
	}
	applied, ok := cmds[0]().(FilterAppliedMsg)
	if !ok {
		t.Fatal("expected FilterAppliedMsg")
	}
	if applied.Rows != 1 || applied.Selection.Mode != models.ModeSiteFocus {
		t.Errorf("unexpected FilterAppliedMsg: %+v", applied)
	}
}

func TestModel_FilterChanged_InvalidRange(t *testing.T) {
	model := NewModel(nil)
	model.state.SetDataset(testDataset(), 0)
	before := model.state.Spec()

	sel := model.state.Selection()
	sel.Hours = models.HourRange{Min: 20, Max: 3}
	cmds := model.handleFilterChanged(FilterChangedMsg{Selection: sel})

	if len(cmds) != 1 {
		t.Fatalf("expected a single notification, got %d commands", len(cmds))
	}
	n, ok := cmds[0]().(AddNotificationMsg)
	if !ok || n.Type != NotificationError {
		t.Fatalf("expected an error notification, got %#v", cmds[0]())
	}
	if !strings.Contains(n.Message, "previous filter kept") {
		t.Errorf("Message = %q", n.Message)
	}
	if model.state.Spec().Hours != before.Hours {
		t.Error("prior spec should be retained")
	}
}

func TestModel_BroadcastsToAllTabs(t *testing.T) {
	model := NewModel(nil)
	fakes := newFakeTabs(model)

	model.Update(FilterAppliedMsg{Rows: 3})

	for i, f := range fakes {
		if !f.received(func(m tea.Msg) bool { _, ok := m.(FilterAppliedMsg); return ok }) {
			t.Errorf("tab %d did not receive FilterAppliedMsg", i)
		}
		if len(f.msgs) != 1 {
			t.Errorf("tab %d received %d messages, want 1", i, len(f.msgs))
		}
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)
	model.state.SetDataset(testDataset(), 0)

	next := testDataset()
	next.Records = next.Records[:1]
	cmds := model.handleServiceEvent(services.DatasetLoadedEvent{Dataset: next, Generation: 2})
	if len(cmds) == 0 {
		t.Fatal("loaded event should produce commands")
	}
	if model.state.Generation() != 2 || model.state.Dataset() != next {
		t.Error("new dataset should be installed")
	}

	stale := testDataset()
	if cmds := model.handleServiceEvent(services.DatasetLoadedEvent{Dataset: stale, Generation: 1}); cmds != nil {
		t.Error("stale event should be ignored")
	}
	if model.state.Dataset() != next {
		t.Error("stale dataset must not be installed")
	}

	cmds = model.handleServiceEvent(services.LoadFailedEvent{Path: "x.csv", Error: errors.New("boom"), Generation: 3})
	if len(cmds) != 1 {
		t.Fatal("failed load should notify")
	}
	if n, ok := cmds[0]().(AddNotificationMsg); !ok || n.Type != NotificationError {
		t.Error("failed load should be an error notification")
	}
	if model.state.Dataset() != next {
		t.Error("failed load should keep the last good dataset")
	}

	cmds = model.handleServiceEvent(services.ErrorEvent{Service: "watcher", Error: errors.New("overflow")})
	if len(cmds) != 1 {
		t.Error("error event should notify")
	}
}

func TestModel_KeyBindings(t *testing.T) {
	model := NewModel(nil)
	fakes := newFakeTabs(model)

	model.Update(runes("2"))
	if model.activeTab != TabHeatmaps {
		t.Errorf("activeTab = %v, want Heatmaps", model.activeTab)
	}
	if len(fakes[TabHeatmaps].msgs) != 0 {
		t.Error("tab shortcut should not reach the tab")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabComparisons {
		t.Errorf("activeTab = %v, want Comparisons", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabOverview {
		t.Errorf("activeTab = %v, want Overview", model.activeTab)
	}

	model.Update(runes("x"))
	if !fakes[TabOverview].received(func(m tea.Msg) bool { _, ok := m.(tea.KeyMsg); return ok }) {
		t.Error("unhandled keys should reach the active tab")
	}
}

func TestModel_CapturingTabSuspendsShortcuts(t *testing.T) {
	model := NewModel(nil)
	fakes := newFakeTabs(model)
	fakes[TabOverview].capturing = true

	model.Update(runes("3"))
	if model.activeTab != TabOverview {
		t.Error("shortcuts should be suspended while the tab captures input")
	}
	if len(fakes[TabOverview].msgs) != 1 {
		t.Error("the key should be delivered to the capturing tab")
	}

	cmd, _ := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c should always quit")
	}
}

func TestModel_MetricKey(t *testing.T) {
	model := NewModel(nil)

	if cmd, _ := model.handleKeyMsg(runes("m")); cmd != nil {
		t.Error("metric key should be a no-op before the first load")
	}

	model.state.SetDataset(testDataset(), 0)
	cmd, handled := model.handleKeyMsg(runes("m"))
	if !handled || cmd == nil {
		t.Fatal("metric key should be handled")
	}
	msg, ok := cmd().(FilterChangedMsg)
	if !ok {
		t.Fatal("expected FilterChangedMsg")
	}
	if msg.Selection.Metric != models.MetricCountSum {
		t.Errorf("Metric = %q, want count_sum", msg.Selection.Metric)
	}
}

func TestModel_ReloadWithoutServices(t *testing.T) {
	model := NewModel(nil)
	if cmd := model.startReload(); cmd != nil {
		t.Error("reload without services should be a no-op")
	}

	model.state.SetLoading(true)
	model.state.SetLoadingNotification("Reloading dataset...")
	model.Update(ReloadDoneMsg{})
	if model.state.IsLoading() || len(model.state.GetNotifications()) != 0 {
		t.Error("ReloadDoneMsg should clear loading")
	}
}

func TestModel_Export(t *testing.T) {
	dir := t.TempDir()
	model := NewModel(nil)
	model.exportDir = dir
	model.state.SetDataset(testDataset(), 0)

	msg := exportCmd(nil, dir, ExportMsg{Kind: ExportRecords}, model.state.View())()
	result, ok := msg.(ExportResultMsg)
	if !ok {
		t.Fatalf("expected ExportResultMsg, got %T", msg)
	}
	if result.Error != nil {
		t.Fatalf("export failed: %v", result.Error)
	}
	if result.Rows != 2 {
		t.Errorf("Rows = %d, want 2", result.Rows)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}

	msg = exportCmd(nil, dir, ExportMsg{Kind: ExportCombinations}, model.state.View())()
	if result := msg.(ExportResultMsg); result.Rows != 2 || !strings.Contains(result.Path, "provider_site_combinations") {
		t.Errorf("unexpected combinations export: %+v", result)
	}

	n, ok := model.handleExportResult(ExportResultMsg{Error: errors.New("disk full")})().(AddNotificationMsg)
	if !ok || n.Type != NotificationError {
		t.Error("failed export should notify an error")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if !strings.Contains(model.View(), "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	view := model.View()
	if !strings.Contains(view, "Overview") {
		t.Error("View should show the Overview tab")
	}
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}
	if !strings.Contains(view, "No dataset loaded") {
		t.Error("status bar should report the missing dataset")
	}

	model.state.SetDataset(testDataset(), 0)
	view = model.View()
	if !strings.Contains(view, "site_metrics.csv") || !strings.Contains(view, "2/3 rows") {
		t.Error("status bar should summarize the dataset and view")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 24})

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}
	if !strings.Contains(model.View(), "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})
	if got := len(model.state.GetNotifications()); got != 1 {
		t.Errorf("Expected 1 notification, got %d", got)
	}

	model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(model.View(), "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(ErrorMsg{Error: errors.New("nope"), Context: "export"})
	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	if _, cmd := model.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	if TabOverview.String() != "Overview" {
		t.Error("TabOverview.String() mismatch")
	}
	if TabInfo.String() != "Info" {
		t.Error("TabInfo.String() mismatch")
	}
	if TabID(999).String() != "Unknown" {
		t.Error("Unknown tab string mismatch")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.Tabs) != int(tabCount) {
		t.Errorf("len(Tabs) = %d, want %d", len(km.Tabs), tabCount)
	}
	if len(km.ShortHelp()) == 0 || len(km.FullHelp()) == 0 {
		t.Error("help should not be empty")
	}
}

func TestInvalidRangeIsReportedByFilter(t *testing.T) {
	// The model relies on filter returning the typed error.
	err := filter.ValidateRange(models.HourRange{Min: 5, Max: 1})
	var rangeErr *filter.InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
}
