package app

import (
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// InitialLoadMsg carries the dataset the manager loaded at startup and the
// selection saved by a previous session, if any.
type InitialLoadMsg struct {
	Dataset    *models.Dataset
	Generation uint64
	Saved      *models.Selection
}

// DatasetLoadedMsg signals that a new dataset was installed in the state.
// Tabs use it to reset cursors and caches.
type DatasetLoadedMsg struct {
	Generation uint64
	Rows       int
}

// ReloadMsg requests an immediate reload of the data file.
type ReloadMsg struct{}

// ReloadDoneMsg is returned when a manual reload finished. The outcome
// itself arrives as a service event.
type ReloadDoneMsg struct {
	Error error
}

// FilterChangedMsg asks the root model to apply a new selection.
type FilterChangedMsg struct {
	Selection models.Selection
}

// FilterAppliedMsg is broadcast to every tab after the view changed.
type FilterAppliedMsg struct {
	Selection models.Selection
	Rows      int
}

// ExportKind selects what an export writes.
type ExportKind int

const (
	// ExportRecords writes the filtered records.
	ExportRecords ExportKind = iota
	// ExportCombinations writes the provider-site combination table.
	ExportCombinations
)

// String returns a short label for notifications.
func (k ExportKind) String() string {
	if k == ExportCombinations {
		return "combinations"
	}
	return "records"
}

// ExportMsg requests exporting the current view.
type ExportMsg struct {
	Kind      ExportKind
	Sort      aggregate.CombinationSort
	Ascending bool
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Kind  ExportKind
	Path  string
	Rows  int
	Error error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
