package mapview

import (
	"math"

	"github.com/paulmach/orb"

	"questmap/internal/geom"
)

// View is the camera. Resolution is map units per screen pixel; zoom is
// derived from it against the projection's zoom-0 resolution, so changing the
// projection extent moves the whole zoom ladder.
type View struct {
	proj       *geom.Projection
	center     orb.Point
	resolution float64
	minZoom    float64
	maxZoom    float64
}

func NewView(proj *geom.Projection, center orb.Point, zoom, minZoom, maxZoom float64) *View {
	v := &View{proj: proj, center: center, minZoom: minZoom, maxZoom: maxZoom}
	v.SetZoom(zoom)
	return v
}

func (v *View) Projection() *geom.Projection { return v.proj }
func (v *View) Center() orb.Point            { return v.center }
func (v *View) Resolution() float64          { return v.resolution }
func (v *View) MinZoom() float64             { return v.minZoom }
func (v *View) MaxZoom() float64             { return v.maxZoom }

func (v *View) SetCenter(c orb.Point) {
	if geom.IsFiniteCoordinateTuple(c) {
		v.center = c
	}
}

// SetZoomBounds replaces the allowed zoom range. The current zoom is left
// alone; callers clamp explicitly.
func (v *View) SetZoomBounds(minZoom, maxZoom float64) {
	v.minZoom, v.maxZoom = minZoom, maxZoom
}

func (v *View) ResolutionForZoom(z float64) float64 {
	return v.proj.MaxResolution() / math.Pow(2, z)
}

func (v *View) ZoomForResolution(r float64) float64 {
	return math.Log2(v.proj.MaxResolution() / r)
}

// Zoom reports the fractional zoom for the current resolution.
func (v *View) Zoom() float64 {
	if v.resolution <= 0 {
		return math.NaN()
	}
	return v.ZoomForResolution(v.resolution)
}

func (v *View) SetZoom(z float64) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	v.SetResolution(v.ResolutionForZoom(z))
}

// SetResolution applies r constrained to the zoom bounds.
func (v *View) SetResolution(r float64) {
	if !(r > 0) || math.IsInf(r, 0) {
		return
	}
	maxRes := v.ResolutionForZoom(v.minZoom)
	minRes := v.ResolutionForZoom(v.maxZoom)
	v.resolution = math.Min(math.Max(r, minRes), maxRes)
}

// ClampZoom pulls the current zoom back inside the bounds, returning whether
// it moved.
func (v *View) ClampZoom() bool {
	z := v.Zoom()
	switch {
	case math.IsNaN(z):
		v.SetZoom(v.minZoom)
		return true
	case z < v.minZoom:
		v.SetZoom(v.minZoom)
		return true
	case z > v.maxZoom:
		v.SetZoom(v.maxZoom)
		return true
	}
	return false
}

// Fit centers on e and picks the resolution that shows all of it in a
// surface of the given pixel size.
func (v *View) Fit(e geom.Extent, size [2]int) {
	if size[0] <= 0 || size[1] <= 0 || !e.Finite() {
		return
	}
	res := math.Max(e.Width()/float64(size[0]), e.Height()/float64(size[1]))
	v.SetResolution(res)
	v.center = e.Center()
}

// CalculateExtent returns the map rectangle visible in a surface of size.
func (v *View) CalculateExtent(size [2]int) geom.Extent {
	hw := float64(size[0]) * v.resolution / 2
	hh := float64(size[1]) * v.resolution / 2
	return geom.Extent{v.center[0] - hw, v.center[1] - hh, v.center[0] + hw, v.center[1] + hh}
}
