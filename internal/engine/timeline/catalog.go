package timeline

import (
	"sync"

	"github.com/google/uuid"
)

// Catalog resolves stable ids to live tracks and items.
type Catalog struct {
	mu     sync.RWMutex
	tracks map[uuid.UUID]*Track
	items  map[uuid.UUID]*Item
}

// NewCatalog creates a catalog indexing the given tracks and their children.
func NewCatalog(tracks ...*Track) *Catalog {
	c := &Catalog{
		tracks: make(map[uuid.UUID]*Track),
		items:  make(map[uuid.UUID]*Item),
	}
	for _, t := range tracks {
		c.AddTrack(t)
	}
	return c
}

// AddTrack indexes a track and its current children.
func (c *Catalog) AddTrack(t *Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks[t.id] = t
	for _, child := range t.children {
		c.items[child.id] = child
	}
}

// AddItem indexes items that are not (yet) held by an indexed track.
func (c *Catalog) AddItem(items ...*Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		c.items[item.id] = item
	}
}

// ResolveTrack returns the track with the given id.
func (c *Catalog) ResolveTrack(id uuid.UUID) (*Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tracks[id]
	return t, ok
}

// ResolveItem returns the item with the given id.
func (c *Catalog) ResolveItem(id uuid.UUID) (*Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}
