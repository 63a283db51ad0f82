package mapview

import "github.com/paulmach/orb"

// DrawPolygon collects vertices for one polygon. The sketch is mirrored into
// the overlay source so it renders while drawing.
type DrawPolygon struct {
	overlay *VectorSource
	ring    orb.Ring
	active  bool

	// OnStart fires when the first vertex is placed.
	OnStart func()
	// OnEnd fires when the session completes. The geometry is nil when the
	// sketch never became a polygon.
	OnEnd func(g orb.Geometry)
	// OnAbort fires when the session is cancelled.
	OnAbort func()
}

func NewDrawPolygon(overlay *VectorSource) *DrawPolygon {
	return &DrawPolygon{overlay: overlay, active: true}
}

func (d *DrawPolygon) Active() bool { return d.active }

// Vertices returns the points placed so far.
func (d *DrawPolygon) Vertices() []orb.Point { return d.ring }

// AppendVertex places a vertex, starting the sketch on the first call.
func (d *DrawPolygon) AppendVertex(p orb.Point) {
	if !d.active {
		return
	}
	if len(d.ring) == 0 && d.OnStart != nil {
		d.OnStart()
	}
	d.ring = append(d.ring, p)
	d.overlay.Clear()
	d.overlay.AddFeature(&Feature{ID: "sketch", Category: CategorySketch, Geometry: orb.LineString(d.ring)})
}

// Finish closes the ring and ends the session. Fewer than three vertices
// end it without a geometry.
func (d *DrawPolygon) Finish() {
	if !d.active {
		return
	}
	var g orb.Geometry
	if len(d.ring) >= 3 {
		ring := append(orb.Ring(nil), d.ring...)
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		g = orb.Polygon{ring}
	}
	d.end(g)
}

// FinishWith ends the session with a geometry supplied from outside the
// pointer flow, such as pasted text.
func (d *DrawPolygon) FinishWith(g orb.Geometry) {
	if !d.active {
		return
	}
	if len(d.ring) == 0 && d.OnStart != nil {
		d.OnStart()
	}
	d.end(g)
}

func (d *DrawPolygon) Abort() {
	if !d.active {
		return
	}
	d.active = false
	d.ring = nil
	if d.OnAbort != nil {
		d.OnAbort()
	}
}

func (d *DrawPolygon) end(g orb.Geometry) {
	d.active = false
	d.ring = nil
	if d.OnEnd != nil {
		d.OnEnd(g)
	}
}
