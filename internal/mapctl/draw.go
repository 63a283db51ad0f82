package mapctl

import (
	"github.com/goccy/go-json"
	"github.com/paulmach/orb"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// RegionDrawResult is one completed region. Geometry is a GeoJSON
// MultiPolygon; Context is the seed passed to StartRegionDraw.
type RegionDrawResult struct {
	Geometry json.RawMessage
	Shape    orb.MultiPolygon
	Context  map[string]any
}

type drawSession struct {
	state       DrawState
	interaction *mapview.DrawPolygon
	seed        map[string]any
}

// IsDrawingRegion reports whether a draw session is armed or in progress.
func (c *Controller) IsDrawingRegion() bool { return c.draw.state != DrawIdle }

func (c *Controller) DrawState() DrawState { return c.draw.state }

// StartRegionDraw arms a polygon draw session carrying seed through to the
// completion callback. Any previous session is dropped without emitting.
func (c *Controller) StartRegionDraw(seed map[string]any) {
	if c.m == nil {
		return
	}
	c.teardownDraw()
	c.layers.draw.Source().Clear()

	d := mapview.NewDrawPolygon(c.layers.draw.Source())
	d.OnStart = c.onDrawStart
	d.OnEnd = c.onDrawEnd
	d.OnAbort = c.onDrawAbort
	c.m.AddInteraction(d)

	c.draw = drawSession{state: DrawArmed, interaction: d, seed: seed}
	c.notifier.Info("Drawing region: click to add points, enter to finish, esc to cancel")
}

// AddDrawVertex places a vertex at a surface pixel.
func (c *Controller) AddDrawVertex(x, y float64) {
	if c.draw.interaction == nil {
		return
	}
	c.draw.interaction.AppendVertex(c.m.PixelToCoordinate(x, y))
}

// FinishDraw completes the session with the vertices placed so far.
func (c *Controller) FinishDraw() {
	if c.draw.interaction == nil {
		return
	}
	c.draw.interaction.Finish()
}

// FinishDrawWith completes the session with a geometry from outside the
// pointer flow.
func (c *Controller) FinishDrawWith(g orb.Geometry) {
	if c.draw.interaction == nil {
		return
	}
	c.draw.interaction.FinishWith(g)
}

// AbortDraw cancels the session. The completion callback is not invoked.
func (c *Controller) AbortDraw() {
	if c.draw.interaction == nil {
		return
	}
	c.draw.interaction.Abort()
}

func (c *Controller) onDrawStart() {
	c.layers.draw.Source().Clear()
	c.draw.state = DrawDrawing
}

func (c *Controller) onDrawEnd(g orb.Geometry) {
	seed := c.draw.seed
	c.teardownDraw()
	if g == nil {
		c.metrics.IncDrawSession("empty")
		c.log.Debug().Msg("draw ended without a polygon")
		return
	}

	shape, err := geom.ToMultiPolygon(g)
	if err != nil {
		c.metrics.IncDrawSession("empty")
		c.log.Debug().Err(err).Msg("draw produced unusable geometry")
		return
	}
	payload, err := geom.EncodeGeometry(shape)
	if err != nil {
		c.metrics.IncDrawSession("empty")
		c.log.Warn().Err(err).Msg("encoding drawn region")
		return
	}

	c.metrics.IncDrawSession("completed")
	if c.onRegion != nil {
		c.onRegion(RegionDrawResult{Geometry: payload, Shape: shape, Context: seed})
	}
	c.notifier.Success("Region captured")
}

func (c *Controller) onDrawAbort() {
	c.teardownDraw()
	c.metrics.IncDrawSession("aborted")
	c.notifier.Info("Region drawing cancelled")
}

// teardownDraw detaches the interaction and clears the sketch and seed.
func (c *Controller) teardownDraw() {
	if c.draw.interaction != nil && c.m != nil {
		c.m.RemoveInteraction(c.draw.interaction)
	}
	c.layers.draw.Source().Clear()
	c.draw = drawSession{}
}
