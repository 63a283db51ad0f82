package mapctl

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"questmap/internal/geodata"
	"questmap/internal/geom"
	"questmap/internal/viewstate"
)

// ExtentOptions tunes UpdateViewExtent.
type ExtentOptions struct {
	// Force ignores cached cameras and always refits.
	Force bool
	// Reason is logged with the update.
	Reason string
}

// StoreOptions tunes StoreCurrentViewState.
type StoreOptions struct {
	// UserAdjusted overrides the stored flag. Nil keeps the previous value.
	UserAdjusted *bool
	// BoundsSignature defaults to the last applied signature.
	BoundsSignature string
}

// UpdateViewExtent brings the camera in line with bounds. A camera cached for
// the active world under the same bounds is replayed when the user adjusted
// it or this instance already fitted the world; otherwise the padded extent
// is fitted. A nil bounds uses the default extent.
func (c *Controller) UpdateViewExtent(bounds *geom.Bounds, opts ExtentOptions) tea.Cmd {
	if c.m == nil {
		return nil
	}
	if bounds != nil && !bounds.Valid() {
		c.log.Debug().Interface("bounds", bounds).Msg("ignoring invalid bounds")
		bounds = nil
	}

	extent := c.proj.SetExtent(bounds)
	padded := geom.PadExtent(extent)
	c.proj.ApplyExtent(padded)
	sig := geom.CreateBoundsSignature(bounds)
	c.fit.signature = sig

	size := c.m.Size()
	if !c.m.HasSize() {
		c.log.Debug().Str("reason", opts.Reason).Msg("surface has no size, deferring view update")
		return c.yield(extentRetryMsg{gen: c.gen, bounds: bounds, opts: opts})
	}

	worldID := c.world.ID
	view := c.m.View()
	c.phase = PhaseProgrammatic

	entry, cached := c.views.Get(worldID)
	if cached && worldID != "" && entry.BoundsSignature == sig && !opts.Force &&
		(entry.UserAdjusted || c.fit.fittedWorlds[worldID]) {
		if entry.Resolution != nil && *entry.Resolution > 0 {
			view.SetResolution(*entry.Resolution)
		} else if entry.Zoom != nil {
			view.SetZoom(*entry.Zoom)
		}
		view.SetCenter(entry.Center)
		c.StoreCurrentViewState(worldID, StoreOptions{BoundsSignature: sig})
		c.metrics.IncViewFit("replay")
		c.log.Debug().Str("world", worldID).Str("reason", opts.Reason).Msg("replayed cached view")
		return c.programmaticSettle()
	}

	needsFit := opts.Force || c.fit.lastExtent == nil || *c.fit.lastExtent != padded || c.fit.lastSize != size
	if needsFit {
		view.Fit(padded, size)
		c.fit.lastExtent = &padded
		c.fit.lastSize = size
		c.metrics.IncViewFit("fit")
	} else {
		view.SetCenter(padded.Center())
		c.metrics.IncViewFit("center")
	}
	c.fit.fittedWorlds[worldID] = true

	notAdjusted := false
	c.StoreCurrentViewState(worldID, StoreOptions{UserAdjusted: &notAdjusted, BoundsSignature: sig})
	c.log.Debug().
		Str("world", worldID).
		Str("reason", opts.Reason).
		Bool("fit", needsFit).
		Float64("zoom", view.Zoom()).
		Msg("view extent updated")
	return c.programmaticSettle()
}

// StoreCurrentViewState snapshots the camera for worldID. It does nothing
// without a sized surface, a finite center or a world id.
func (c *Controller) StoreCurrentViewState(worldID string, opts StoreOptions) {
	if c.m == nil || !c.m.HasSize() || worldID == "" {
		return
	}
	view := c.m.View()
	center := view.Center()
	if !geom.IsFiniteCoordinateTuple(center) {
		return
	}

	sig := opts.BoundsSignature
	if sig == "" {
		sig = c.fit.signature
	}
	prev, ok := c.views.Get(worldID)
	userAdjusted := ok && prev.UserAdjusted
	if opts.UserAdjusted != nil {
		userAdjusted = *opts.UserAdjusted
	}

	size := c.m.Size()
	c.views.Set(worldID, viewstate.Entry{
		Center:          center,
		Zoom:            finitePtr(view.Zoom()),
		Resolution:      finitePtr(view.Resolution()),
		Extent:          view.CalculateExtent(size),
		Size:            size,
		BoundsSignature: sig,
		UserAdjusted:    userAdjusted,
	})
}

// SetWorld switches the active world. Vector layers are emptied and the
// camera moves to the new world's cached or fitted view.
func (c *Controller) SetWorld(w geodata.World) tea.Cmd {
	if c.world.ID == w.ID && w.ID != "" {
		prev := geom.CreateBoundsSignature(c.world.EffectiveBounds())
		c.world = w
		if !c.MapReady() || prev == geom.CreateBoundsSignature(w.EffectiveBounds()) {
			return nil
		}
		return c.UpdateViewExtent(w.EffectiveBounds(), ExtentOptions{Reason: "bounds"})
	}
	c.world = w
	c.layers.clearData()
	c.layers.spawn.Source().Clear()
	c.layers.highlight.Source().Clear()
	c.log.Info().Str("world", w.ID).Msg("world selected")
	if !c.MapReady() {
		return nil
	}
	return c.UpdateViewExtent(w.EffectiveBounds(), ExtentOptions{Reason: "world"})
}

// ResetView refits the active world, discarding any cached camera.
func (c *Controller) ResetView() tea.Cmd {
	if !c.MapReady() {
		return nil
	}
	return c.UpdateViewExtent(c.world.EffectiveBounds(), ExtentOptions{Force: true, Reason: "reset"})
}

// Pan moves the camera by a pixel offset.
func (c *Controller) Pan(dx, dy float64) tea.Cmd {
	if !c.MapReady() {
		return nil
	}
	view := c.m.View()
	res := view.Resolution()
	center := view.Center()
	view.SetCenter(orb.Point{center[0] + dx*res, center[1] - dy*res})
	return c.userMoved()
}

// ZoomBy changes zoom by delta, keeping the coordinate under anchor fixed.
// A nil anchor zooms about the center.
func (c *Controller) ZoomBy(delta float64, anchor *[2]float64) tea.Cmd {
	if !c.MapReady() {
		return nil
	}
	view := c.m.View()
	target := view.Zoom() + delta
	if math.IsNaN(target) {
		return nil
	}
	if anchor == nil {
		view.SetZoom(target)
		return c.userMoved()
	}
	before := c.m.PixelToCoordinate(anchor[0], anchor[1])
	view.SetZoom(target)
	after := c.m.PixelToCoordinate(anchor[0], anchor[1])
	center := view.Center()
	view.SetCenter(orb.Point{center[0] + before[0] - after[0], center[1] + before[1] - after[1]})
	return c.userMoved()
}

// ZoomTo sets an absolute zoom, clamped to the current bounds.
func (c *Controller) ZoomTo(z float64) tea.Cmd {
	if !c.MapReady() {
		return nil
	}
	c.m.View().SetZoom(z)
	return c.userMoved()
}

func (c *Controller) userMoved() tea.Cmd {
	c.moveSeq++
	return c.settle(settleMsg{gen: c.gen, seq: c.moveSeq})
}

func (c *Controller) programmaticSettle() tea.Cmd {
	c.moveSeq++
	return c.yield(settleMsg{gen: c.gen, seq: c.moveSeq, programmatic: true})
}

// handleSettle ends a camera move. Only the latest move is acted on: a user
// move stores the camera as user adjusted, and either kind reloads layers.
func (c *Controller) handleSettle(msg settleMsg) tea.Cmd {
	if msg.gen != c.gen {
		return nil
	}
	if c.phase == PhaseProgrammatic {
		c.phase = PhaseReady
	}
	if msg.seq != c.moveSeq {
		return nil
	}
	if !msg.programmatic {
		adjusted := true
		c.StoreCurrentViewState(c.world.ID, StoreOptions{UserAdjusted: &adjusted})
	}
	return c.LoadWorldLayers()
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
