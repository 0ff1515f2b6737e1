package db

import (
	"reflect"
	"testing"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

func TestInsertLoadEvent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	modTime := time.Date(2025, 6, 23, 10, 0, 0, 0, time.UTC)
	event := &models.LoadEvent{
		SessionID: "sess-1",
		Path:      "/data/site_metrics.csv",
		ModTime:   modTime,
		Rows:      120,
		Dropped:   3,
	}

	if err := db.InsertLoadEvent(event); err != nil {
		t.Fatalf("InsertLoadEvent() failed: %v", err)
	}
	if event.ID == 0 {
		t.Error("InsertLoadEvent() should set ID")
	}

	events, err := db.GetRecentLoadEvents(10)
	if err != nil {
		t.Fatalf("GetRecentLoadEvents() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	got := events[0]
	if got.Path != event.Path || got.Rows != 120 || got.Dropped != 3 {
		t.Errorf("unexpected event: %+v", got)
	}
	if !got.ModTime.Equal(modTime) {
		t.Errorf("ModTime = %v, want %v", got.ModTime, modTime)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp should default to now")
	}
	if got.Failed() {
		t.Error("event without error should not be failed")
	}
}

func TestGetRecentLoadEvents_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for i, errText := range []string{"", "failed to load x: no such file", ""} {
		event := &models.LoadEvent{SessionID: "sess-1", Path: "x.csv", Rows: i, Error: errText}
		if err := db.InsertLoadEvent(event); err != nil {
			t.Fatalf("InsertLoadEvent() failed: %v", err)
		}
	}

	events, err := db.GetRecentLoadEvents(2)
	if err != nil {
		t.Fatalf("GetRecentLoadEvents() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Rows != 2 {
		t.Errorf("newest event should come first, got rows=%d", events[0].Rows)
	}
	if !events[1].Failed() {
		t.Error("second event should carry the error")
	}
	if !events[1].ModTime.IsZero() {
		t.Error("missing mod time should scan as zero")
	}
}

func TestFilterSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	snap, err := db.GetLastFilterSnapshot("a.csv")
	if err != nil {
		t.Fatalf("GetLastFilterSnapshot() failed: %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot for an empty table")
	}

	first := &models.FilterSnapshot{
		SessionID: "sess-1",
		DataPath:  "a.csv",
		Selection: models.Selection{
			Mode:      models.ModeProviderFocus,
			Providers: []string{"AI"},
			Hours:     models.FullDay,
			Metric:    models.MetricTPHMedian,
		},
	}
	second := &models.FilterSnapshot{
		SessionID: "sess-2",
		DataPath:  "a.csv",
		Selection: models.Selection{
			Mode:      models.ModeCustom,
			Providers: []string{"AI", "QL2"},
			Sites:     []string{"S1", "S2"},
			Hours:     models.HourRange{Min: 6, Max: 18},
			Metric:    models.MetricCountSum,
		},
	}
	other := &models.FilterSnapshot{
		SessionID: "sess-2",
		DataPath:  "b.csv",
		Selection: models.Selection{Mode: models.ModeSiteFocus, Sites: []string{"S9"}, Hours: models.FullDay, Metric: models.MetricTPHMedian},
	}
	for _, s := range []*models.FilterSnapshot{first, second, other} {
		if err := db.SaveFilterSnapshot(s); err != nil {
			t.Fatalf("SaveFilterSnapshot() failed: %v", err)
		}
	}

	got, err := db.GetLastFilterSnapshot("a.csv")
	if err != nil {
		t.Fatalf("GetLastFilterSnapshot() failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if !reflect.DeepEqual(got.Selection, second.Selection) {
		t.Errorf("Selection = %+v, want %+v", got.Selection, second.Selection)
	}
	if got.SessionID != "sess-2" {
		t.Errorf("SessionID = %q", got.SessionID)
	}

	got, err = db.GetLastFilterSnapshot("b.csv")
	if err != nil || got == nil {
		t.Fatalf("GetLastFilterSnapshot(b.csv) = %v, %v", got, err)
	}
	if got.Selection.Providers != nil {
		t.Errorf("empty providers should decode as nil, got %v", got.Selection.Providers)
	}
}

func TestFilterSnapshots_CodesWithCommas(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	snap := &models.FilterSnapshot{
		SessionID: "sess-1",
		DataPath:  "a.csv",
		Selection: models.Selection{
			Mode:   models.ModeSiteFocus,
			Sites:  []string{"S1,North", "S2"},
			Hours:  models.FullDay,
			Metric: models.MetricTPHMedian,
		},
	}
	if err := db.SaveFilterSnapshot(snap); err != nil {
		t.Fatalf("SaveFilterSnapshot() failed: %v", err)
	}

	got, err := db.GetLastFilterSnapshot("a.csv")
	if err != nil || got == nil {
		t.Fatalf("GetLastFilterSnapshot() = %v, %v", got, err)
	}
	if !reflect.DeepEqual(got.Selection.Sites, []string{"S1,North", "S2"}) {
		t.Errorf("Sites = %q", got.Selection.Sites)
	}
}

func TestPruneFilterSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for hour := 0; hour < 5; hour++ {
		s := &models.FilterSnapshot{
			SessionID: "sess-1",
			DataPath:  "a.csv",
			Selection: models.Selection{Providers: []string{"AI"}, Hours: models.HourRange{Min: hour, Max: 23}, Metric: models.MetricTPHMedian},
		}
		if err := db.SaveFilterSnapshot(s); err != nil {
			t.Fatalf("SaveFilterSnapshot() failed: %v", err)
		}
	}

	removed, err := db.PruneFilterSnapshots("a.csv", 2)
	if err != nil {
		t.Fatalf("PruneFilterSnapshots() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	got, err := db.GetLastFilterSnapshot("a.csv")
	if err != nil || got == nil {
		t.Fatalf("GetLastFilterSnapshot() = %v, %v", got, err)
	}
	if got.Selection.Hours.Min != 4 {
		t.Errorf("newest snapshot should survive, got min hour %d", got.Selection.Hours.Min)
	}
}

func TestSessionEvents(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	events := []*models.SessionEvent{
		{SessionID: "sess-1", EventType: models.SessionStarted},
		{SessionID: "sess-1", EventType: models.SessionExport, Metadata: "/tmp/a.csv"},
		{SessionID: "sess-1", EventType: models.SessionExport, Metadata: "/tmp/b.csv"},
	}
	for _, e := range events {
		if err := db.InsertSessionEvent(e); err != nil {
			t.Fatalf("InsertSessionEvent() failed: %v", err)
		}
		if e.ID == 0 {
			t.Error("InsertSessionEvent() should set ID")
		}
	}

	exports, err := db.GetSessionEvents(models.SessionExport, 10)
	if err != nil {
		t.Fatalf("GetSessionEvents() failed: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].Metadata != "/tmp/b.csv" {
		t.Errorf("newest export should come first, got %q", exports[0].Metadata)
	}
}

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2025-06-23 10:00:00", true},
		{"2025-06-23T10:00:00Z", true},
		{"2025-06-23T10:00:00.123456789Z", true},
		{"yesterday", false},
	}
	for _, tt := range tests {
		if _, ok := parseTimeString(tt.in); ok != tt.ok {
			t.Errorf("parseTimeString(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}
