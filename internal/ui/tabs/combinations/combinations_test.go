package combinations

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

func loadedState(t *testing.T) *app.State {
	t.Helper()
	state := app.NewState()
	ds := &models.Dataset{Records: []models.MetricRecord{
		{ProviderCode: "AI", SiteCode: "S1", Hour: 0, TPHMedian: 10, CountSum: 1500, AvgFirstRespDelayMinute: 1},
		{ProviderCode: "AI", SiteCode: "S1", Hour: 1, TPHMedian: 30, CountSum: 5, AvgFirstRespDelayMinute: 3},
		{ProviderCode: "QL2", SiteCode: "S2", Hour: 2, TPHMedian: 25, CountSum: 1, AvgFirstRespDelayMinute: 0.5},
	}}
	state.SetDataset(ds, 0)
	sel := models.Selection{Mode: models.ModeCustom, Providers: []string{"AI", "QL2"}, Sites: []string{"S1", "S2"}, Hours: models.FullDay}
	if err := state.ApplyFilter(sel); err != nil {
		t.Fatal(err)
	}
	return state
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Refresh(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})

	if len(m.combos) != 2 {
		t.Fatalf("len(combos) = %d, want 2", len(m.combos))
	}
	if m.combos[0].Key() != "QL2-S2" {
		t.Errorf("first by TPH avg desc = %s, want QL2-S2", m.combos[0].Key())
	}
	rows := m.table.Rows()
	if rows[1][6] != "1,505" {
		t.Errorf("count column = %q, want 1,505", rows[1][6])
	}
}

func TestModel_SortKeys(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})

	m.Update(keyPress("s"))
	if m.sort != aggregate.SortTPHMax || m.combos[0].Key() != "AI-S1" {
		t.Errorf("sort=%v first=%s", m.sort, m.combos[0].Key())
	}

	m.Update(keyPress("a"))
	if !m.ascending || m.combos[0].Key() != "QL2-S2" {
		t.Errorf("ascending TPH max should put QL2-S2 first, got %s", m.combos[0].Key())
	}
}

func TestModel_Export(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})
	m.Update(keyPress("s"))
	m.Update(keyPress("s"))

	_, cmd := m.Update(keyPress("e"))
	if cmd == nil {
		t.Fatal("export should return a command")
	}
	msg, ok := cmd().(app.ExportMsg)
	if !ok {
		t.Fatalf("expected ExportMsg, got %T", cmd())
	}
	want := app.ExportMsg{Kind: app.ExportCombinations, Sort: aggregate.SortCountTotal}
	if msg != want {
		t.Errorf("ExportMsg = %+v, want %+v", msg, want)
	}
}

func TestModel_ExportEmptyWarns(t *testing.T) {
	m := New(app.NewState())
	_, cmd := m.Update(keyPress("e"))
	if cmd == nil {
		t.Fatal("expected a warning")
	}
	if n, ok := cmd().(app.AddNotificationMsg); !ok || n.Type != app.NotificationWarning {
		t.Errorf("expected warning notification, got %#v", cmd())
	}
}

func TestModel_View(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(120, 30)

	view := m.View()
	for _, want := range []string{"Combinations", "TPH_Avg desc", "QL2", "Delay Avg"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := New(app.NewState())
	empty.SetSize(80, 20)
	if !strings.Contains(empty.View(), "No combinations") {
		t.Error("expected empty message")
	}
}

func TestColumns(t *testing.T) {
	if got := columns(0)[1].Width; got != 8 {
		t.Errorf("narrow site column = %d, want 8", got)
	}
	if got := columns(300)[1].Width; got != 20 {
		t.Errorf("wide site column = %d, want 20", got)
	}
}
