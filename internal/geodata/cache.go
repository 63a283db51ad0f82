package geodata

import (
	"context"
	"sync"
	"time"
)

const defaultTileSetTTL = 5 * time.Minute

// tileSetCache memoizes the tile set listing for a TTL.
type tileSetCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	fetch   func(context.Context) ([]TileSet, error)
	now     func() time.Time
	fetched time.Time
	sets    []TileSet
}

func newTileSetCache(ttl time.Duration, fetch func(context.Context) ([]TileSet, error)) *tileSetCache {
	if ttl <= 0 {
		ttl = defaultTileSetTTL
	}
	return &tileSetCache{ttl: ttl, fetch: fetch, now: time.Now}
}

func (c *tileSetCache) get(ctx context.Context) ([]TileSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sets != nil && c.now().Sub(c.fetched) < c.ttl {
		return c.sets, nil
	}
	sets, err := c.fetch(ctx)
	if err != nil {
		if c.sets != nil {
			// serve stale on failure
			return c.sets, nil
		}
		return nil, err
	}
	if sets == nil {
		sets = []TileSet{}
	}
	c.sets, c.fetched = sets, c.now()
	return sets, nil
}

func (c *tileSetCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = nil
}
