// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/filter"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is shared between the root model and the tabs. It owns the current
// dataset, the user's selection and the filtered view derived from them.
type State struct {
	mu sync.RWMutex

	dataset    *models.Dataset
	generation uint64
	selection  models.Selection
	spec       models.FilterSpec
	view       []models.MetricRecord
	revision   uint64

	loading     bool
	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state waiting for its first dataset.
func NewState() *State {
	return &State{
		loading:       true,
		selection:     models.Selection{Hours: models.FullDay, Metric: models.MetricTPHMedian},
		view:          []models.MetricRecord{},
		notifications: make([]Notification, 0),
	}
}

// SetDataset installs ds as the current dataset. Results from a generation
// older than the one already applied are ignored and false is returned.
// The current selection is kept, minus codes the new dataset lacks.
func (s *State) SetDataset(ds *models.Dataset, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ds == nil || (s.dataset != nil && generation < s.generation) {
		return false
	}

	first := s.dataset == nil
	s.dataset = ds
	s.generation = generation
	s.loading = false

	sel := filter.Sanitize(ds, s.selection)
	if first || (len(sel.Providers) == 0 && len(sel.Sites) == 0) {
		sel = filter.Defaults(ds, s.selection.Mode)
		sel.Hours = s.selection.Hours
		sel.Metric = s.selection.Metric
	}

	if err := s.applyLocked(sel); err != nil {
		// The stored selection was valid, so only a fresh default can fail.
		_ = s.applyLocked(filter.Defaults(ds, sel.Mode))
	}
	return true
}

// ApplyFilter resolves sel against the current dataset and recomputes the
// view. On *filter.InvalidRangeError nothing changes and the previous spec
// stays in effect.
func (s *State) ApplyFilter(sel models.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(sel)
}

func (s *State) applyLocked(sel models.Selection) error {
	spec, err := filter.Resolve(s.dataset, sel)
	if err != nil {
		return err
	}
	view, err := filter.Apply(s.dataset, spec)
	if err != nil {
		return err
	}

	s.selection = sel.Clone()
	s.selection.Metric = spec.Metric
	s.spec = spec
	s.view = view
	s.revision++
	s.lastUpdated = time.Now()
	return nil
}

// Dataset returns the current dataset, or nil before the first load.
func (s *State) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Generation returns the generation of the current dataset.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Selection returns a copy of the last applied selection.
func (s *State) Selection() models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Clone()
}

// Spec returns a copy of the last valid filter spec.
func (s *State) Spec() models.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec.Clone()
}

// Metric returns the metric currently being analyzed.
func (s *State) Metric() models.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Metric
}

// View returns the filtered records. The slice must not be modified.
func (s *State) View() []models.MetricRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Revision increases every time the view changes. Tabs use it to know when
// their cached computations are stale.
func (s *State) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// SetLoading marks a reload in progress.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// IsLoading reports whether a load is in progress.
func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastUpdated returns when the view was last recomputed.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.activeLocked()
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *State) activeLocked() []Notification {
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
