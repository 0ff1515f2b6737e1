package sites

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
		{ProviderCode: "AI", SiteCode: "S2", Hour: 0, TPHMedian: 10, CountSum: 3, AvgFirstRespDelayMinute: 1},
		{ProviderCode: "AI", SiteCode: "S1", Hour: 1, TPHMedian: 20, CountSum: 5, AvgFirstRespDelayMinute: 2},
		{ProviderCode: "QL2", SiteCode: "S1", Hour: 1, TPHMedian: 40, CountSum: 7, AvgFirstRespDelayMinute: 4},
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

func TestModel_SiteListIsSorted(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})

	if len(m.sites) != 2 || m.sites[0] != "S1" || m.sites[1] != "S2" {
		t.Fatalf("sites = %v", m.sites)
	}
	d := m.detail
	if d.site != "S1" || d.records != 2 {
		t.Errorf("detail = %+v", d)
	}
	if got := d.summaries[models.MetricTPHMedian]; got.Mean != 30 || got.Count != 2 {
		t.Errorf("TPH summary = %+v", got)
	}
	if d.providers.Len() != 2 || d.providers.Groups[0].Key != "QL2" {
		t.Errorf("providers should be ordered by TPH sum, got %v", d.providers.Keys())
	}
}

func TestModel_Navigation(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})

	m.Update(keyPress("j"))
	if m.selected != 1 || m.detail.site != "S2" {
		t.Errorf("next: selected=%d site=%s", m.selected, m.detail.site)
	}
	m.Update(keyPress("j"))
	if m.selected != 0 {
		t.Errorf("next should wrap, got %d", m.selected)
	}
	m.Update(keyPress("G"))
	if m.selected != 1 {
		t.Errorf("last = %d", m.selected)
	}
	m.Update(keyPress("g"))
	if m.selected != 0 {
		t.Errorf("first = %d", m.selected)
	}
	m.Update(keyPress("k"))
	if m.selected != 1 {
		t.Errorf("prev should wrap, got %d", m.selected)
	}
}

func TestModel_CursorSurvivesRefresh(t *testing.T) {
	state := loadedState(t)
	m := New(state)
	m.Update(app.FilterAppliedMsg{})
	m.Update(keyPress("j")) // S2

	sel := state.Selection()
	sel.Metric = models.MetricCountSum
	if err := state.ApplyFilter(sel); err != nil {
		t.Fatal(err)
	}
	m.Update(app.FilterAppliedMsg{})
	if m.sites[m.selected] != "S2" {
		t.Errorf("cursor moved to %s", m.sites[m.selected])
	}
	if m.metric != models.MetricCountSum {
		t.Errorf("metric = %q", m.metric)
	}
}

func TestModel_FocusEmitsFilterChange(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should request a filter change")
	}
	msg, ok := cmd().(app.FilterChangedMsg)
	if !ok {
		t.Fatalf("expected FilterChangedMsg, got %T", cmd())
	}
	if msg.Selection.Mode != models.ModeSiteFocus || len(msg.Selection.Sites) != 1 || msg.Selection.Sites[0] != "S1" {
		t.Errorf("unexpected selection %+v", msg.Selection)
	}
}

func TestModel_View(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(140, 80)

	view := m.View()
	for _, want := range []string{"Sites", "Site S1", "TPH Median", "Providers at this site", "QL2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := New(app.NewState())
	empty.SetSize(80, 20)
	if !strings.Contains(empty.View(), "No sites") {
		t.Error("expected empty message")
	}
	if _, cmd := empty.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter without sites should do nothing")
	}
}

func TestDetailSeriesArePerProvider(t *testing.T) {
	m := New(loadedState(t))
	m.Update(app.FilterAppliedMsg{})
	var keys []string
	for _, s := range m.detail.series {
		keys = append(keys, s.Key)
	}
	if strings.Join(keys, ",") != "AI,QL2" {
		t.Errorf("series keys = %v", keys)
	}
}
