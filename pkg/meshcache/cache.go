// Package meshcache shares built mesh hierarchies between instances so each
// mesh file is parsed and built once per process.
package meshcache

import (
	"fmt"
	"sort"
	"sync"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Key identifies a built mesh. The same file built flat and smooth are
// different entries.
type Key struct {
	Path   string
	Smooth bool
}

// LoadFunc reads mesh arrays from a file
type LoadFunc func(path string) (*geometry.MeshData, error)

// Cache maps mesh keys to their BVH. Entries are never evicted. Built meshes
// carry no material; instances supply one.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]geometry.Hittable
	load    LoadFunc
}

// New creates an empty cache reading files with load
func New(load LoadFunc) *Cache {
	return &Cache{
		entries: make(map[Key]geometry.Hittable),
		load:    load,
	}
}

// Get returns the cached mesh for key, if present
func (c *Cache) Get(key Key) (geometry.Hittable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mesh, ok := c.entries[key]
	return mesh, ok
}

// Load returns the mesh for path, reading and building it on first use.
// Concurrent callers for the same key share one build. Failures are returned
// and not remembered, so a later call retries.
func (c *Cache) Load(path string, smooth bool) (geometry.Hittable, error) {
	key := Key{Path: path, Smooth: smooth}
	if mesh, ok := c.Get(key); ok {
		return mesh, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have built it while we waited for the lock
	if mesh, ok := c.entries[key]; ok {
		return mesh, nil
	}

	data, err := c.load(path)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}
	mesh, err := geometry.NewMesh(data, smooth, nil)
	if err != nil {
		return nil, fmt.Errorf("build mesh %s: %w", path, err)
	}

	c.entries[key] = mesh
	return mesh, nil
}

// Len returns the number of cached meshes
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys sorted by path, flat before smooth
func (c *Cache) Keys() []Key {
	c.mu.RLock()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return !keys[i].Smooth && keys[j].Smooth
	})
	return keys
}
