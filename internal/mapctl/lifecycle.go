package mapctl

import (
	tea "github.com/charmbracelet/bubbletea"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// InitializeMap builds a map instance once the container has a size. Calling
// it again cancels a pending wait and any in-flight settle work.
func (c *Controller) InitializeMap() tea.Cmd {
	c.initSeq++
	c.moveSeq++
	return c.awaitContainer(c.initSeq)
}

// Remount rebuilds the map instance. Cached cameras survive along with the
// region and spawn layers. Loader-fed layers refill on the next settle.
func (c *Controller) Remount() tea.Cmd {
	c.log.Debug().Msg("remounting map")
	return c.InitializeMap()
}

func (c *Controller) awaitContainer(seq int) tea.Cmd {
	if seq != c.initSeq {
		return nil
	}
	if !c.container.sized() {
		return c.yield(initRetryMsg{seq: seq})
	}
	return c.createMapInstance()
}

// createMapInstance disposes any surface bound to the container and builds a
// fresh one with per-instance fit tracking. Only regions and the spawn point
// carry over from the previous layers.
func (c *Controller) createMapInstance() tea.Cmd {
	if c.container.surface != nil {
		c.teardownDraw()
		c.container.surface.Dispose()
		c.container.surface = nil
	}

	c.gen++
	c.phase = PhaseUninitialized
	c.fit = newFitState()

	prev := c.layers
	c.layers = newLayerSet()
	if prev != nil {
		c.layers.regions.Source().AddFeatures(prev.regions.Source().Features())
		c.layers.spawn.Source().AddFeatures(prev.spawn.Source().Features())
	}
	for d, on := range c.visibility {
		if l := c.layers.forType(d); l != nil {
			l.SetVisible(on)
		}
	}

	view := mapview.NewView(c.proj, geom.DefaultExtent.Center(), defaultZoom, permissiveMinZoom, permissiveMaxZoom)
	c.m = mapview.New(view, c.layers.all()...)
	c.container.surface = c.m
	if c.tileSet != nil {
		c.RefreshMapTileSource(c.tileSet)
	}

	c.phase = PhaseSizing
	c.log.Debug().Int("generation", c.gen).Msg("map instance created")
	return c.checkSize(c.gen)
}

// checkSize completes sizing when the container reports a positive size and
// otherwise polls once per frame.
func (c *Controller) checkSize(gen int) tea.Cmd {
	if gen != c.gen || c.phase != PhaseSizing {
		return nil
	}
	if !c.container.sized() {
		return c.yield(sizeCheckMsg{gen: gen})
	}
	return c.becomeReady()
}

func (c *Controller) becomeReady() tea.Cmd {
	c.m.SetSize(c.container.w, c.container.h)
	c.phase = PhaseReady
	c.log.Info().
		Int("width", c.container.w).
		Int("height", c.container.h).
		Str("world", c.world.ID).
		Msg("map ready")
	return c.UpdateViewExtent(c.world.EffectiveBounds(), ExtentOptions{Reason: "initial"})
}

// Resize records the container size. It completes a pending sizing step or,
// once ready, resizes the surface and refits the current world.
func (c *Controller) Resize(w, h int) tea.Cmd {
	c.container.w, c.container.h = max(w, 0), max(h, 0)
	switch {
	case c.m == nil:
		return nil
	case c.phase == PhaseSizing:
		if c.container.sized() {
			return c.becomeReady()
		}
		return nil
	case c.MapReady():
		if c.m.Size() == [2]int{c.container.w, c.container.h} {
			return nil
		}
		c.m.SetSize(c.container.w, c.container.h)
		return c.UpdateViewExtent(c.world.EffectiveBounds(), ExtentOptions{Reason: "resize"})
	}
	return nil
}
