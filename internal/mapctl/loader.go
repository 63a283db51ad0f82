package mapctl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"questmap/internal/geodata"
	"questmap/internal/geom"
	"questmap/internal/mapview"
)

type fetchFunc func(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error)

func (c *Controller) fetcher(d DataType) fetchFunc {
	switch d {
	case DataBurgs:
		return c.source.LoadBurgs
	case DataRoutes:
		return c.source.LoadRoutes
	case DataRivers:
		return c.source.LoadRivers
	case DataMarkers:
		return c.source.LoadMarkers
	case DataCells:
		return c.source.LoadCells
	}
	return nil
}

// LoadWorldLayers fetches every visible category eligible at the current zoom
// for the visible extent. Visible but ineligible layers are emptied. A call
// made while a load is running is dropped, as is one made before a world is
// selected.
func (c *Controller) LoadWorldLayers() tea.Cmd {
	if !c.MapReady() || c.source == nil || c.world.ID == "" {
		return nil
	}
	if c.loading {
		c.metrics.IncLoadDropped()
		c.log.Debug().Msg("layer load already running, dropping request")
		return nil
	}

	view := c.m.View()
	extent := view.CalculateExtent(c.m.Size())
	if !extent.Finite() {
		c.log.Debug().Msg("visible extent not finite, skipping layer load")
		return nil
	}
	bounds := extent.Bounds()
	if !bounds.Valid() {
		if wb := c.world.EffectiveBounds(); wb != nil {
			bounds = *wb
		}
	}

	eligible := DataTypesForZoom(int(math.Floor(view.Zoom())))
	var types []DataType
	for _, d := range DataTypes {
		if !c.visibility[d] {
			continue
		}
		if !eligible.Has(d) {
			c.layers.forType(d).Source().Clear()
			continue
		}
		types = append(types, d)
	}
	if len(types) == 0 {
		return nil
	}

	c.loading = true
	return c.fetchLayers(c.gen, c.world.ID, bounds, types)
}

// fetchLayers runs one goroutine per category and waits for all of them.
// Each goroutine records its own outcome, so one failure never cancels the
// others.
func (c *Controller) fetchLayers(gen int, worldID string, b geom.Bounds, types []DataType) tea.Cmd {
	fetchers := make([]fetchFunc, len(types))
	for i, d := range types {
		fetchers[i] = c.fetcher(d)
	}
	return func() tea.Msg {
		start := time.Now()
		results := make([]LayerResult, len(types))
		var g errgroup.Group
		for i, d := range types {
			g.Go(func() error {
				results[i] = fetchOne(fetchers[i], d, worldID, b)
				return nil
			})
		}
		_ = g.Wait()
		return LayersLoadedMsg{gen: gen, WorldID: worldID, Results: results, Elapsed: time.Since(start)}
	}
}

func fetchOne(fetch fetchFunc, d DataType, worldID string, b geom.Bounds) (res LayerResult) {
	res.Type = d
	defer func() {
		if r := recover(); r != nil {
			res.Features, res.Err = nil, fmt.Errorf("%s fetch panicked: %v", d, r)
		}
	}()
	res.Features, res.Err = fetch(context.Background(), worldID, b)
	return res
}

// applyLayers installs fetched features. Failed categories keep what they
// had. Results for another world or a disposed instance are discarded and a
// fresh load is started for the current one.
func (c *Controller) applyLayers(msg LayersLoadedMsg) tea.Cmd {
	c.loading = false
	c.metrics.ObserveLayerLoad(msg.Elapsed)
	if msg.gen != c.gen || msg.WorldID != c.world.ID {
		c.log.Debug().Str("world", msg.WorldID).Msg("discarding stale layer results")
		return c.LoadWorldLayers()
	}

	for _, r := range msg.Results {
		layer := c.layers.forType(r.Type)
		if layer == nil {
			continue
		}
		if r.Err != nil {
			if errors.Is(r.Err, geodata.ErrAreaTooLarge) {
				c.metrics.ObserveLayerFetch(string(r.Type), "rejected")
				c.log.Debug().Str("category", string(r.Type)).Msg("area too large, keeping previous features")
				continue
			}
			c.metrics.ObserveLayerFetch(string(r.Type), "error")
			c.log.Warn().Err(r.Err).Str("category", string(r.Type)).Msg("layer fetch failed")
			continue
		}
		c.metrics.ObserveLayerFetch(string(r.Type), "ok")
		src := layer.Source()
		src.Clear()
		src.AddFeatures(r.Features)
	}
	c.log.Debug().
		Str("world", msg.WorldID).
		Dur("elapsed", msg.Elapsed).
		Int("categories", len(msg.Results)).
		Msg("layers loaded")
	return nil
}
