package models

import "testing"

func TestLoadEvent_Failed(t *testing.T) {
	tests := []struct {
		name  string
		event LoadEvent
		want  bool
	}{
		{"Loaded", LoadEvent{Rows: 10}, false},
		{"LoadedWithDrops", LoadEvent{Rows: 10, Dropped: 2}, false},
		{"Rejected", LoadEvent{Error: "schema error: missing column hour"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}
