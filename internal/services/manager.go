// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/j-veylop/capacity-dashboard-tui/internal/config"
	"github.com/j-veylop/capacity-dashboard-tui/internal/db"
	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services/datafile"
)

// snapshotsKept bounds the saved filter history per data file.
const snapshotsKept = 20

type (
	// DatasetLoadedEvent is emitted when a reload produced a new dataset.
	DatasetLoadedEvent struct {
		Dataset    *models.Dataset
		Generation uint64
	}

	// LoadFailedEvent is emitted when a reload failed. The previous dataset
	// remains in use.
	LoadFailedEvent struct {
		Path       string
		Error      error
		Generation uint64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetLoadedEvent) isServiceEvent() {}
func (LoadFailedEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()         {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	source      *datafile.Service
	database    *db.DB
	sessionID   string
	exportDir   string
	notify      func(title, body string) error
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once
}

// NewManager loads the dataset, opens the database and starts watching the
// data file. A dataset load error is returned unchanged.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		sessionID: uuid.NewString(),
		exportDir: cfg.ExportDir,
		stopChan:  make(chan struct{}),
	}
	if cfg.DesktopNotifications {
		m.notify = func(title, body string) error {
			return beeep.Notify(title, body, "")
		}
	}

	var err error
	m.source, err = datafile.New(cfg.DataPath, cfg.SchemaPolicy, cfg.ReloadDebounce)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		_ = m.source.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.recordSession(models.SessionStarted, m.source.Path())
	m.recordLoad(m.source.Current(), nil)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.source.Events():
			m.handleSourceEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSourceEvent(event datafile.Event) {
	switch event.Type {
	case datafile.EventLoaded:
		m.recordLoad(event.Dataset, nil)
		m.broadcast(DatasetLoadedEvent{Dataset: event.Dataset, Generation: event.Generation})

		if n := event.Dataset.DroppedCount(); n > 0 {
			m.notifyDesktop("Dataset reloaded with dropped rows",
				fmt.Sprintf("%s rows skipped in %s", humanize.Comma(int64(n)), m.source.Path()))
		}

	case datafile.EventError:
		// A generation of zero means the watcher itself failed, not a load.
		if event.Generation == 0 {
			m.broadcast(ErrorEvent{Service: "watcher", Error: event.Error})
			return
		}
		m.recordLoad(nil, event.Error)
		m.broadcast(LoadFailedEvent{Path: m.source.Path(), Error: event.Error, Generation: event.Generation})
		m.notifyDesktop("Dataset reload failed", event.Error.Error())
	}
}

func (m *Manager) recordLoad(ds *models.Dataset, loadErr error) {
	event := &models.LoadEvent{
		SessionID: m.sessionID,
		Path:      m.source.Path(),
	}
	if ds != nil {
		event.ModTime = ds.ModTime
		event.Rows = ds.Len()
		event.Dropped = ds.DroppedCount()
	}
	if loadErr != nil {
		event.Error = loadErr.Error()
	}

	if err := m.database.InsertLoadEvent(event); err != nil {
		logger.Error("failed to record load event", "error", err)
	}
}

func (m *Manager) recordSession(eventType, metadata string) {
	event := &models.SessionEvent{
		SessionID: m.sessionID,
		EventType: eventType,
		Metadata:  metadata,
	}
	if err := m.database.InsertSessionEvent(event); err != nil {
		logger.Error("failed to record session event", "type", eventType, "error", err)
	}
}

func (m *Manager) notifyDesktop(title, body string) {
	if m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel. A closed
// channel yields nil.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Dataset returns the current dataset.
func (m *Manager) Dataset() *models.Dataset {
	return m.source.Current()
}

// Generation returns the latest reload generation.
func (m *Manager) Generation() uint64 {
	return m.source.Generation()
}

// DataPath returns the absolute path of the data file.
func (m *Manager) DataPath() string {
	return m.source.Path()
}

// SessionID identifies this run in the database.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// ExportDir is where exports are written.
func (m *Manager) ExportDir() string {
	return m.exportDir
}

// CacheStats returns loader cache hits and misses.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.source.CacheStats()
}

// Reload re-reads the data file now. The outcome is also broadcast to
// subscribers.
func (m *Manager) Reload() error {
	event := m.source.Reload()
	return event.Error
}

// SaveFilter remembers sel as the last valid selection for the data file.
func (m *Manager) SaveFilter(sel models.Selection) error {
	snap := &models.FilterSnapshot{
		SessionID: m.sessionID,
		DataPath:  m.source.Path(),
		Selection: sel,
	}
	if err := m.database.SaveFilterSnapshot(snap); err != nil {
		return err
	}
	if _, err := m.database.PruneFilterSnapshots(snap.DataPath, snapshotsKept); err != nil {
		logger.Warn("failed to prune filter snapshots", "error", err)
	}
	return nil
}

// LastFilter returns the last saved selection for the data file, or nil.
func (m *Manager) LastFilter() (*models.Selection, error) {
	snap, err := m.database.GetLastFilterSnapshot(m.source.Path())
	if err != nil || snap == nil {
		return nil, err
	}
	sel := snap.Selection
	return &sel, nil
}

// LoadHistory returns recent load attempts, newest first.
func (m *Manager) LoadHistory(limit int) ([]models.LoadEvent, error) {
	return m.database.GetRecentLoadEvents(limit)
}

// RecordExport logs a written export file.
func (m *Manager) RecordExport(path string) {
	m.recordSession(models.SessionExport, path)
}

// RecentExports returns recent exports across sessions, newest first.
func (m *Manager) RecentExports(limit int) ([]models.SessionEvent, error) {
	return m.database.GetSessionEvents(models.SessionExport, limit)
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.source.Close(); err != nil {
			errs = append(errs, err)
		}

		m.recordSession(models.SessionEnded, time.Now().Format(time.RFC3339))
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}
