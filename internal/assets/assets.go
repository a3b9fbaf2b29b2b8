// Package assets resolves and caches the still images a world refers to.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Faultbox/vour/internal/media"
)

// ErrNotFound is returned when no root holds the requested image.
var ErrNotFound = errors.New("image not found")

// Manager resolves image names against the referring file's directory and a
// list of asset roots.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds an asset directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// Resolve finds name. Absolute names are used as is; relative names are
// tried next to dir first, then in each root.
func (m *Manager) Resolve(name, dir string) (string, os.FileInfo, error) {
	if filepath.IsAbs(name) {
		info, err := os.Stat(name)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return name, info, nil
	}

	m.mu.RLock()
	candidates := make([]string, 0, len(m.roots)+1)
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for i := len(m.roots) - 1; i >= 0; i-- {
		candidates = append(candidates, filepath.Join(m.roots[i], name))
	}
	m.mu.RUnlock()

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, info, nil
		}
	}
	return "", nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Image resolves name and returns its probed dimensions. A file is probed
// again once its size or modification time changes.
func (m *Manager) Image(name, dir string) (*media.Image, error) {
	path, info, err := m.Resolve(name, dir)
	if err != nil {
		return nil, err
	}
	stamp := Stamp{Size: info.Size(), ModTime: info.ModTime()}
	if img, ok := m.cache.Get(path, stamp); ok {
		return img, nil
	}

	img, err := media.ProbeImage(path)
	if err != nil {
		return nil, err
	}
	img.ModTime = stamp.ModTime
	m.cache.Set(path, stamp, img)
	return img, nil
}

// Cache returns the probe cache.
func (m *Manager) Cache() *Cache { return m.cache }

// Stamp identifies one version of a file.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

type entry struct {
	stamp Stamp
	img   *media.Image
}

// Cache keeps probed images by path.
type Cache struct {
	data map[string]entry
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
	}
}

// Get returns the image cached for path if it was probed at stamp.
func (c *Cache) Get(path string, stamp Stamp) (*media.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[path]
	if ok && e.stamp.Size == stamp.Size && e.stamp.ModTime.Equal(stamp.ModTime) {
		c.hits++
		return e.img, true
	}
	c.misses++
	return nil, false
}

// Set stores an item in cache.
func (c *Cache) Set(path string, stamp Stamp, img *media.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = entry{stamp: stamp, img: img}
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
