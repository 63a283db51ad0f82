package tui

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

// hoverRadius is how close, in surface pixels, the pointer must be to a point
// or line to pick it.
const hoverRadius = 4.0

// pickable excludes layers that only mirror other state.
func pickable(name string) bool {
	switch name {
	case mapctl.LayerDraw, mapctl.LayerSpawn, mapctl.LayerHighlight:
		return false
	}
	return true
}

// pickFeature returns the feature under surface pixel (px, py). Points and
// lines within radius win, nearest first and upper layers on ties; otherwise
// the top-most polygon containing the pointer is returned.
func pickFeature(sm *mapview.Map, layers []*mapview.VectorLayer, px, py, radius float64) *mapview.Feature {
	if sm == nil || !sm.HasSize() {
		return nil
	}
	res := sm.View().Resolution()
	if res <= 0 || math.IsNaN(res) {
		return nil
	}
	pt := sm.PixelToCoordinate(px, py)

	var best *mapview.Feature
	bestD := radius
	for i := len(layers) - 1; i >= 0; i-- {
		if !pickable(layers[i].Name()) {
			continue
		}
		for _, f := range layers[i].Source().Features() {
			if !linear(f.Geometry) {
				continue
			}
			d := planar.DistanceFrom(f.Geometry, pt) / res
			if d < bestD || (best == nil && d <= bestD) {
				best, bestD = f, d
			}
		}
	}
	if best != nil {
		return best
	}

	for i := len(layers) - 1; i >= 0; i-- {
		if !pickable(layers[i].Name()) {
			continue
		}
		for _, f := range layers[i].Source().Features() {
			if contains(f.Geometry, pt) {
				return f
			}
		}
	}
	return nil
}

func linear(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Point, orb.MultiPoint, orb.LineString, orb.MultiLineString:
		return true
	}
	return false
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	case orb.Ring:
		return planar.RingContains(g, pt)
	case orb.Bound:
		return g.Contains(pt)
	}
	return false
}
