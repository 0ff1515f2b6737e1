package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

type cacheEntry struct {
	modTime time.Time
	size    int64
	dataset *models.Dataset
}

// Cache memoizes loaded datasets by absolute path. An entry is reused only
// while the file's modification time and size are unchanged. Returned
// datasets are shared and must be treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	policy  Policy
	load    func(string, Policy) (*models.Dataset, error)
	entries map[string]cacheEntry
	group   singleflight.Group
	epoch   uint64
	hits    int
	misses  int
}

// NewCache creates an empty cache that loads with policy.
func NewCache(policy Policy) *Cache {
	return &Cache{
		policy:  policy,
		load:    LoadWithPolicy,
		entries: make(map[string]cacheEntry),
	}
}

// Policy returns the schema policy used for loads.
func (c *Cache) Policy() Policy {
	return c.policy
}

// Load returns the dataset for path, parsing the file only when it changed
// since the cached load. Concurrent misses share a single parse only when
// they saw the same file version and no Invalidate happened in between.
func (c *Cache) Load(path string) (*models.Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &DataLoadError{Path: abs, Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Path: abs, Err: fmt.Errorf("is a directory")}
	}

	c.mu.RLock()
	entry, ok := c.entries[abs]
	epoch := c.epoch
	c.mu.RUnlock()

	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry.dataset, nil
	}

	flight := fmt.Sprintf("%s|%d|%d|%d", abs, info.ModTime().UnixNano(), info.Size(), epoch)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		ds, loadErr := c.load(abs, c.policy)
		if loadErr != nil {
			return nil, loadErr
		}

		c.mu.Lock()
		c.misses++
		// A parse that started before Invalidate must not replace what
		// later loads stored.
		if c.epoch == epoch {
			c.entries[abs] = cacheEntry{modTime: ds.ModTime, size: ds.Size, dataset: ds}
		}
		c.mu.Unlock()

		logger.Debug("dataset loaded", "path", abs, "rows", ds.Len(), "dropped", ds.DroppedCount())
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Dataset), nil
}

// Invalidate forgets the cached dataset for path.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.epoch++
	c.mu.Unlock()
}

// Stats returns the number of cache hits and parses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
