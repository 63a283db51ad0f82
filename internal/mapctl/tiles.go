package mapctl

import (
	"fmt"
	"strings"

	"questmap/internal/geodata"
	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// SetTileSets replaces the selectable tile sets.
func (c *Controller) SetTileSets(sets []geodata.TileSet) {
	c.tileSets = append([]geodata.TileSet(nil), sets...)
}

// SelectTileSet switches base imagery to the listed tile set with id. An
// empty id removes the imagery.
func (c *Controller) SelectTileSet(id string) error {
	if id == "" {
		c.RefreshMapTileSource(nil)
		return nil
	}
	for i := range c.tileSets {
		if c.tileSets[i].ID == id {
			ts := c.tileSets[i]
			c.RefreshMapTileSource(&ts)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoTileSet, id)
}

// TileSetForWorld returns the first listed tile set cut for worldID.
func (c *Controller) TileSetForWorld(worldID string) (geodata.TileSet, bool) {
	for _, ts := range c.tileSets {
		if ts.WorldID == worldID {
			return ts, true
		}
	}
	return geodata.TileSet{}, false
}

// ApplyTileSetConstraints applies the tile set's zoom range to the camera and
// clamps the current zoom into it. An inverted range is reported and the
// permissive range is used instead.
func (c *Controller) ApplyTileSetConstraints(ts *geodata.TileSet) {
	if c.m == nil {
		return
	}
	view := c.m.View()
	minZoom, maxZoom := ts.ZoomRange()
	if maxZoom < minZoom {
		name := ""
		if ts != nil {
			name = ts.ID
		}
		err := fmt.Errorf("%w: tile set %q declares max_zoom %g below min_zoom %g", ErrZoomRange, name, maxZoom, minZoom)
		c.reportError(err.Error())
		view.SetZoomBounds(permissiveMinZoom, permissiveMaxZoom)
		return
	}
	view.SetZoomBounds(minZoom, maxZoom)
	if view.ClampZoom() {
		c.log.Debug().Float64("zoom", view.Zoom()).Msg("zoom clamped to tile set range")
	}
}

// RefreshMapTileSource swaps the base layer's imagery to ts. A nil ts clears
// the imagery and hides the layer. Without a surface the selection is kept
// and applied when the next instance is built.
func (c *Controller) RefreshMapTileSource(ts *geodata.TileSet) {
	c.tileSet = ts
	if c.m == nil {
		return
	}
	base := c.layers.base
	if ts == nil {
		base.SetSource(nil)
		base.SetVisible(false)
		return
	}

	src, err := c.buildTileSource(ts)
	if err != nil {
		base.SetSource(nil)
		base.SetVisible(false)
		msg := fmt.Sprintf("Failed to load tile set %q: %v. Configure a tile set for this world.", ts.Name, err)
		c.tileErr = msg
		c.reportError(msg)
		return
	}
	base.SetSource(src)
	base.SetVisible(true)
	base.SetOpacity(1)
	if c.tileErr != "" && c.mapErr == c.tileErr {
		c.mapErr = ""
	}
	c.tileErr = ""
	c.ApplyTileSetConstraints(ts)
	c.log.Info().Str("tile_set", ts.ID).Msg("base imagery switched")
}

// buildTileSource turns a tile set into a source. Panics from malformed
// records are returned as errors.
func (c *Controller) buildTileSource(ts *geodata.TileSet) (src *mapview.TileSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("building tile source: %v", r)
		}
	}()

	extent, ok := ts.GridExtent()
	if !ok {
		if b := c.world.EffectiveBounds(); b != nil {
			extent = b.Extent()
		} else {
			extent = geom.ExtentFor(nil)
		}
	}
	minZoom, maxZoom := ts.ZoomRange()
	if maxZoom < minZoom {
		minZoom, maxZoom = permissiveMinZoom, permissiveMaxZoom
	}
	src, err = mapview.NewTileSource(tileTemplate(ts), extent, int(minZoom), int(maxZoom), ts.TileSize)
	if err != nil {
		return nil, err
	}
	src.Attribution = ts.Attribution
	return src, nil
}

// tileTemplate accepts either a full XYZ template or a bare base URL.
func tileTemplate(ts *geodata.TileSet) string {
	base := strings.TrimSpace(ts.BaseURL)
	if base == "" || strings.Contains(base, "{z}") {
		return base
	}
	format := ts.Format
	if format == "" {
		format = "png"
	}
	return strings.TrimSuffix(base, "/") + "/{z}/{x}/{y}." + format
}
