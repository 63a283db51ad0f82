package geodata

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTileSetCacheTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	calls := 0
	fail := false
	c := newTileSetCache(time.Minute, func(context.Context) ([]TileSet, error) {
		calls++
		if fail {
			return nil, errors.New("down")
		}
		return []TileSet{{ID: "t1"}}, nil
	})
	c.now = func() time.Time { return now }

	if _, err := c.get(context.Background()); err != nil || calls != 1 {
		t.Fatalf("first get: calls=%d err=%v", calls, err)
	}
	now = now.Add(30 * time.Second)
	_, _ = c.get(context.Background())
	if calls != 1 {
		t.Errorf("fetched within TTL, calls=%d", calls)
	}

	now = now.Add(time.Minute)
	fail = true
	sets, err := c.get(context.Background())
	if err != nil || len(sets) != 1 || calls != 2 {
		t.Errorf("expired failing fetch: sets=%v err=%v calls=%d; want stale listing", sets, err, calls)
	}
}
