package filters

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

func loadedState(t *testing.T) *app.State {
	t.Helper()
	state := app.NewState()
	ds := &models.Dataset{Records: []models.MetricRecord{
		{ProviderCode: "QL2", SiteCode: "S2", Hour: 12, TPHMedian: 30},
		{ProviderCode: "AI", SiteCode: "S1", Hour: 0, TPHMedian: 10},
		{ProviderCode: "AI", SiteCode: "S2", Hour: 5, TPHMedian: 20},
	}}
	if !state.SetDataset(ds, 0) {
		t.Fatal("SetDataset rejected the dataset")
	}
	return state
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// changed runs cmd and returns the selection it asks the app to apply.
func changed(t *testing.T, cmd tea.Cmd) models.Selection {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(app.FilterChangedMsg)
	if !ok {
		t.Fatalf("expected FilterChangedMsg, got %T", cmd())
	}
	return msg.Selection
}

func TestModel_CodesAreSorted(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.DatasetLoadedMsg{})

	if strings.Join(m.providers, ",") != "AI,QL2" || strings.Join(m.sites, ",") != "S1,S2" {
		t.Errorf("providers=%v sites=%v", m.providers, m.sites)
	}
}

func TestModel_ModeCycleKeepsHoursAndMetric(t *testing.T) {
	state := loadedState(t)
	sel := state.Selection()
	sel.Hours = models.HourRange{Min: 2, Max: 20}
	sel.Metric = models.MetricCountSum
	if err := state.ApplyFilter(sel); err != nil {
		t.Fatal(err)
	}

	m := New(state)
	_, cmd := m.Update(keyPress("f"))
	next := changed(t, cmd)

	if next.Mode != models.ModeSiteFocus {
		t.Errorf("mode = %v, want site focus", next.Mode)
	}
	if len(next.Sites) != 1 || next.Sites[0] != "S2" {
		t.Errorf("site focus should default to the first site seen, got %v", next.Sites)
	}
	if next.Hours != sel.Hours || next.Metric != models.MetricCountSum {
		t.Errorf("hours and metric should be kept, got %+v", next)
	}
}

func TestModel_ToggleProviders(t *testing.T) {
	m := New(loadedState(t))

	// Provider focus defaults to QL2, the first provider seen.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if got := changed(t, cmd).Providers; strings.Join(got, ",") != "QL2,AI" {
		t.Errorf("toggling AI on = %v", got)
	}

	m.Update(keyPress("j"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if got := changed(t, cmd).Providers; len(got) != 0 {
		t.Errorf("toggling QL2 off = %v", got)
	}
}

func TestModel_ImpliedPaneIsReadOnly(t *testing.T) {
	m := New(loadedState(t))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	for _, k := range []tea.KeyMsg{{Type: tea.KeySpace}, keyPress("a"), keyPress("n")} {
		if _, cmd := m.Update(k); cmd != nil {
			t.Errorf("%q should do nothing on the implied site list", k.String())
		}
	}
}

func TestModel_SelectAllAndNone(t *testing.T) {
	state := loadedState(t)
	if err := state.ApplyFilter(models.Selection{Mode: models.ModeCustom, Hours: models.FullDay}); err != nil {
		t.Fatal(err)
	}
	m := New(state)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	_, cmd := m.Update(keyPress("a"))
	if got := changed(t, cmd).Sites; strings.Join(got, ",") != "S1,S2" {
		t.Errorf("select all = %v", got)
	}
	_, cmd = m.Update(keyPress("n"))
	if got := changed(t, cmd).Sites; got != nil {
		t.Errorf("select none = %v", got)
	}
}

func TestModel_Reset(t *testing.T) {
	state := loadedState(t)
	sel := state.Selection()
	sel.Hours = models.HourRange{Min: 3, Max: 4}
	sel.Metric = models.MetricAvgFirstRespDelay
	_ = state.ApplyFilter(sel)

	m := New(state)
	_, cmd := m.Update(keyPress("x"))
	next := changed(t, cmd)
	if next.Hours != models.FullDay || next.Metric != models.MetricAvgFirstRespDelay {
		t.Errorf("reset should restore full day and keep the metric, got %+v", next)
	}
}

func TestModel_HourInput(t *testing.T) {
	m := New(loadedState(t))

	m.Update(keyPress("h"))
	if !m.Capturing() {
		t.Fatal("h should open the hour input")
	}
	if m.input.Value() != "00-23" {
		t.Errorf("input should start with the current range, got %q", m.input.Value())
	}
	if len(m.ShortHelp()) != 2 {
		t.Error("editing help should show apply and cancel")
	}

	m.input.SetValue("5-12")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Capturing() {
		t.Error("enter should close the input")
	}
	if got := changed(t, cmd).Hours; got != (models.HourRange{Min: 5, Max: 12}) {
		t.Errorf("hours = %+v", got)
	}
}

func TestModel_HourInputInvalidRangeGoesToApp(t *testing.T) {
	m := New(loadedState(t))
	m.Update(keyPress("h"))
	m.input.SetValue("12-5")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := changed(t, cmd).Hours; got != (models.HourRange{Min: 12, Max: 5}) {
		t.Errorf("inverted range should reach the app unchanged, got %+v", got)
	}
}

func TestModel_HourInputSyntaxError(t *testing.T) {
	m := New(loadedState(t))
	m.Update(keyPress("h"))
	m.input.SetValue("noon")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(app.AddNotificationMsg)
	if !ok || msg.Type != app.NotificationError {
		t.Fatalf("expected error notification, got %#v", cmd())
	}
	if !strings.Contains(msg.Message, "noon") {
		t.Errorf("message should quote the input: %q", msg.Message)
	}
}

func TestModel_HourInputCancel(t *testing.T) {
	m := New(loadedState(t))
	m.Update(keyPress("h"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.Capturing() {
		t.Error("esc should close the input without changes")
	}
}

func TestModel_View(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(100, 30)

	view := m.View()
	for _, want := range []string{"Filters", "Provider Focus", "Providers (1/2)", "Sites (1/2) implied", "[x] QL2", "[·] S2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Update(keyPress("h"))
	if !strings.Contains(m.View(), "hours:") {
		t.Error("editing view should show the hour input")
	}
}

func TestModel_WithoutDataset(t *testing.T) {
	m := New(app.NewState())
	if _, cmd := m.Update(keyPress("f")); cmd != nil {
		t.Error("keys should be ignored before the dataset loads")
	}
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("expected waiting message")
	}
	if m.Init() != nil || len(m.FullHelp()) == 0 {
		t.Error("unexpected Init or help")
	}
}
