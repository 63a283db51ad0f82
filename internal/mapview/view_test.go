package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"questmap/internal/geom"
)

func newTestView(t *testing.T, b geom.Bounds) *View {
	t.Helper()
	proj := geom.NewProjection()
	proj.SetExtent(&b)
	return NewView(proj, orb.Point{0, 0}, 0, 0, 20)
}

func TestViewFit(t *testing.T) {
	v := newTestView(t, geom.Bounds{West: 0, South: 0, East: 256, North: 256})
	e := geom.PadExtent(geom.Extent{0, 0, 256, 256})
	v.Fit(e, [2]int{1024, 768})

	if c := v.Center(); c != (orb.Point{128, 128}) {
		t.Errorf("Center = %v, want [128 128]", c)
	}
	want := 281.6 / 768
	if math.Abs(v.Resolution()-want) > 1e-12 {
		t.Errorf("Resolution = %v, want %v", v.Resolution(), want)
	}

	got := v.CalculateExtent([2]int{1024, 768})
	if got[1] > e[1]+1e-9 || got[3] < e[3]-1e-9 {
		t.Errorf("visible extent %v does not contain fitted height of %v", got, e)
	}
}

func TestViewFitIgnoresEmptySize(t *testing.T) {
	v := newTestView(t, geom.Bounds{West: 0, South: 0, East: 256, North: 256})
	before := v.Resolution()
	v.Fit(geom.Extent{0, 0, 10, 10}, [2]int{0, 768})
	if v.Resolution() != before {
		t.Errorf("Fit with zero width changed resolution")
	}
}

func TestViewZoomBounds(t *testing.T) {
	v := newTestView(t, geom.Bounds{West: 0, South: 0, East: 256, North: 256})
	v.SetZoom(4)
	if math.Abs(v.Zoom()-4) > 1e-9 {
		t.Fatalf("Zoom = %v, want 4", v.Zoom())
	}

	v.SetZoomBounds(0, 2)
	if math.Abs(v.Zoom()-4) > 1e-9 {
		t.Errorf("SetZoomBounds moved zoom to %v", v.Zoom())
	}
	if !v.ClampZoom() || math.Abs(v.Zoom()-2) > 1e-9 {
		t.Errorf("ClampZoom left zoom at %v, want 2", v.Zoom())
	}

	v.SetZoom(10)
	if math.Abs(v.Zoom()-2) > 1e-9 {
		t.Errorf("SetZoom(10) with max 2 gave %v", v.Zoom())
	}
}
