package thumbnail

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"inkboard/internal/document"
	"inkboard/internal/shape"
)

type entry struct {
	fingerprint uint64
	png         []byte
}

// Cache memoizes thumbnails per page. A page is re-rendered only when its
// shape list changes. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	render  func(document.Page) ([]byte, error)
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry), render: Render}
}

// Get returns the thumbnail for page, rendering it on a miss.
func (c *Cache) Get(page document.Page) ([]byte, error) {
	fp := shape.Fingerprint(page.Shapes)

	c.mu.Lock()
	if e, ok := c.entries[page.ID]; ok && e.fingerprint == fp {
		c.hits++
		c.mu.Unlock()
		return e.png, nil
	}
	c.misses++
	c.mu.Unlock()

	png, err := c.render(page)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[page.ID] = entry{fingerprint: fp, png: png}
	c.mu.Unlock()
	return png, nil
}

// RenderAll renders every page concurrently and returns thumbnails keyed by
// page id. Each worker gets its own copy of the page.
func (c *Cache) RenderAll(ctx context.Context, pages []document.Page) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	out := make(map[string][]byte, len(pages))
	for _, p := range pages {
		page := p.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			png, err := c.Get(page)
			if err != nil {
				return err
			}
			mu.Lock()
			out[page.ID] = png
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Prune drops entries for pages not in keep.
func (c *Cache) Prune(keep []string) {
	live := make(map[string]bool, len(keep))
	for _, id := range keep {
		live[id] = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.entries {
		if !live[id] {
			delete(c.entries, id)
		}
	}
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
