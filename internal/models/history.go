package models

import "time"

// LoadEvent records one attempt to load the dataset file.
type LoadEvent struct {
	ID        int64
	SessionID string
	Path      string
	ModTime   time.Time
	Rows      int
	Dropped   int
	Error     string
	Timestamp time.Time
}

// Failed reports whether the load was rejected.
func (e LoadEvent) Failed() bool {
	return e.Error != ""
}

// FilterSnapshot is a persisted selection for a data file.
type FilterSnapshot struct {
	ID        int64
	SessionID string
	DataPath  string
	Selection Selection
	Timestamp time.Time
}

// Session event types.
const (
	SessionStarted = "started"
	SessionExport  = "export"
	SessionEnded   = "ended"
)

// SessionEvent is a notable moment in a dashboard session.
type SessionEvent struct {
	ID        int64
	SessionID string
	EventType string
	Metadata  string
	Timestamp time.Time
}
