package mapctl

import (
	"github.com/paulmach/orb"

	"questmap/internal/mapview"
)

// ToggleLayer flips the visibility of a data category.
func (c *Controller) ToggleLayer(d DataType) {
	c.SetLayerVisible(d, !c.visibility[d])
}

// SetLayerVisible shows or hides a data category. It never fetches; newly
// shown layers fill on the next settle.
func (c *Controller) SetLayerVisible(d DataType, on bool) {
	l := c.layers.forType(d)
	if l == nil {
		return
	}
	c.visibility[d] = on
	l.SetVisible(on)
}

// SetSpawn marks the party's spawn point. A nil point clears it.
func (c *Controller) SetSpawn(p *orb.Point) {
	src := c.layers.spawn.Source()
	src.Clear()
	if p == nil {
		return
	}
	src.AddFeature(&mapview.Feature{ID: "spawn", Category: mapview.CategoryMarker, Name: "Spawn", Geometry: *p})
}

// SetHighlight outlines f above every other layer. Nil clears it.
func (c *Controller) SetHighlight(f *mapview.Feature) {
	src := c.layers.highlight.Source()
	src.Clear()
	if f == nil {
		return
	}
	src.AddFeature(f)
}

// Highlighted returns the highlighted feature or nil.
func (c *Controller) Highlighted() *mapview.Feature {
	fs := c.layers.highlight.Source().Features()
	if len(fs) == 0 {
		return nil
	}
	return fs[0]
}

// SetRegions replaces the campaign regions shown on the map.
func (c *Controller) SetRegions(fs []*mapview.Feature) {
	src := c.layers.regions.Source()
	src.Clear()
	src.AddFeatures(fs)
}

// AddRegion shows one campaign region.
func (c *Controller) AddRegion(f *mapview.Feature) {
	if f == nil {
		return
	}
	c.layers.regions.Source().AddFeature(f)
}
