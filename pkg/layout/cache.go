package layout

import (
	"sync"

	"gitlab.com/tinyland/lab/vision-station/pkg/config"
)

// Cache remembers the grid for the last area so View does not re-solve the
// layout every frame. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	layout config.LayoutConfig
	area   Rect
	cells  []Cell
	valid  bool
}

// NewCache creates a cache for lc.
func NewCache(lc config.LayoutConfig) *Cache {
	return &Cache{layout: lc}
}

// Cells returns the grid for area, computing it only when area changed
// since the previous call.
func (c *Cache) Cells(area Rect) []Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.area != area {
		c.cells = Grid(c.layout, area)
		c.area = area
		c.valid = true
	}
	out := make([]Cell, len(c.cells))
	copy(out, c.cells)
	return out
}

// SetLayout swaps the layout and drops the cached grid.
func (c *Cache) SetLayout(lc config.LayoutConfig) {
	c.mu.Lock()
	c.layout = lc
	c.valid = false
	c.mu.Unlock()
}

// Invalidate drops the cached grid.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// IDs returns the widget identifiers in layout order, first occurrence
// only.
func IDs(lc config.LayoutConfig) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range lc.Rows {
		for _, ch := range row.Children {
			if !seen[ch.Type] {
				seen[ch.Type] = true
				ids = append(ids, ch.Type)
			}
		}
	}
	return ids
}
