// Package statecache persists the last known host states between sessions so
// the card has something to draw before the host answers.
package statecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
)

const fileVersion = "1"

// File is the JSON file format for the state cache
type File struct {
	Version string                     `json:"version"`
	SavedAt time.Time                  `json:"saved_at"`
	States  map[string]entity.Snapshot `json:"states"`
}

// Cache holds entity snapshots keyed by entity id
type Cache struct {
	path    string
	mu      sync.RWMutex
	savedAt time.Time
	states  map[string]entity.Snapshot
}

// DefaultPath returns the cache location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "thermocard", "states.json"), nil
}

// Open creates a Cache and loads it from disk. A missing file is an empty
// cache.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:   path,
		states: make(map[string]entity.Snapshot),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := c.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return c, nil
}

// Load reads the cache from disk
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse state cache: %w", err)
	}
	if file.Version != fileVersion {
		// Older layouts are dropped rather than migrated.
		c.states = make(map[string]entity.Snapshot)
		return nil
	}

	c.savedAt = file.SavedAt
	c.states = file.States
	if c.states == nil {
		c.states = make(map[string]entity.Snapshot)
	}
	return nil
}

// Save writes the cache to disk atomically
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.savedAt = time.Now().UTC()
	data, err := json.MarshalIndent(File{
		Version: fileVersion,
		SavedAt: c.savedAt,
		States:  c.states,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Get retrieves the cached snapshot of an entity
func (c *Cache) Get(entityID string) (entity.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.states[entityID]
	return snap, ok
}

// Put records snapshots, replacing earlier ones for the same entities.
func (c *Cache) Put(snaps ...entity.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, snap := range snaps {
		if snap.EntityID == "" {
			continue
		}
		c.states[snap.EntityID] = snap
	}
}

// Snapshots returns every cached snapshot ordered by entity id.
func (c *Cache) Snapshots() []entity.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Snapshot, 0, len(c.states))
	for _, snap := range c.states {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

// SavedAt reports when the cache was last written.
func (c *Cache) SavedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.savedAt
}

// Len returns the number of cached entities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}
