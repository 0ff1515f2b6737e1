// Package datafile keeps the dashboard's dataset in sync with its CSV file.
package datafile

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/capacity-dashboard-tui/internal/dataset"
	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// DefaultDebounce is the quiet period after the last write before a reload.
const DefaultDebounce = 100 * time.Millisecond

// EventType defines the type of data file event.
type EventType int

const (
	// EventLoaded carries a freshly loaded dataset.
	EventLoaded EventType = iota
	// EventError reports a failed reload; the previous dataset stays current.
	EventError
)

// Event represents a data file service event.
type Event struct {
	Type       EventType
	Dataset    *models.Dataset
	Error      error
	Generation uint64
}

// Service loads the data file through a cache and reloads it when the file
// changes on disk.
type Service struct {
	mu            sync.RWMutex
	path          string
	cache         *dataset.Cache
	current       *models.Dataset
	generation    uint64
	applied       uint64
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New loads path and starts watching it. A load failure here is returned
// as is, so callers can refuse to start.
func New(path string, policy dataset.Policy, debounce time.Duration) (*Service, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &dataset.DataLoadError{Path: path, Err: err}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	s := &Service{
		path:      abs,
		cache:     dataset.NewCache(policy),
		debounce:  debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	ds, err := s.cache.Load(abs)
	if err != nil {
		return nil, err
	}
	s.current = ds

	// Start file watcher
	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// Events returns the event channel for subscribing to reloads.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the absolute path of the watched file.
func (s *Service) Path() string {
	return s.path
}

// Current returns the last successfully loaded dataset.
func (s *Service) Current() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generation returns the number of reloads started so far.
func (s *Service) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// CacheStats exposes the loader cache counters.
func (s *Service) CacheStats() (hits, misses int) {
	return s.cache.Stats()
}

// Reload re-reads the file, publishes the outcome and returns it. A result
// that finishes after a newer reload has already been applied is dropped.
func (s *Service) Reload() Event {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.cache.Invalidate(s.path)
	ds, err := s.cache.Load(s.path)
	if err != nil {
		logger.Warn("dataset reload failed", "path", s.path, "error", err)
		event := Event{Type: EventError, Error: err, Generation: gen}
		s.sendEvent(event)
		return event
	}

	s.mu.Lock()
	if gen < s.applied {
		s.mu.Unlock()
		logger.Debug("discarding stale dataset", "generation", gen)
		return Event{Type: EventLoaded, Dataset: ds, Generation: gen}
	}
	s.applied = gen
	s.current = ds
	s.mu.Unlock()

	logger.Info("dataset reloaded", "path", s.path, "rows", ds.Len(), "dropped", ds.DroppedCount())
	event := Event{Type: EventLoaded, Dataset: ds, Generation: gen}
	s.sendEvent(event)
	return event
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so editors that replace the file are seen too
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.scheduleReload()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		select {
		case <-s.stopChan:
			return
		default:
		}
		s.Reload()
	})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
