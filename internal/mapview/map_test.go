package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"questmap/internal/geom"
)

func TestMapPixelRoundTrip(t *testing.T) {
	v := newTestView(t, geom.Bounds{West: 0, South: -1000, East: 1000, North: 0})
	m := New(v, NewVectorLayer("a", 2), NewTileLayer("base", 0))
	m.SetSize(200, 100)
	v.SetCenter(orb.Point{500, -500})

	x, y := m.CoordinateToPixel(orb.Point{500, -500})
	if x != 100 || y != 50 {
		t.Errorf("center projects to (%v, %v), want (100, 50)", x, y)
	}

	p := m.PixelToCoordinate(20, 10)
	bx, by := m.CoordinateToPixel(p)
	if math.Abs(bx-20) > 1e-9 || math.Abs(by-10) > 1e-9 {
		t.Errorf("round trip gave (%v, %v), want (20, 10)", bx, by)
	}
	if p[1] <= -500 {
		t.Errorf("pixel above center mapped below it: %v", p)
	}

	if m.Layers()[0].Name() != "base" {
		t.Errorf("layers not sorted by z: first is %q", m.Layers()[0].Name())
	}
}

func TestMapInteractions(t *testing.T) {
	m := New(newTestView(t, geom.Bounds{West: 0, South: -1, East: 1, North: 0}))
	d := NewDrawPolygon(NewVectorSource())
	m.AddInteraction(d)
	if len(m.Interactions()) != 1 {
		t.Fatalf("interaction not added")
	}
	m.RemoveInteraction(d)
	if len(m.Interactions()) != 0 {
		t.Errorf("interaction not removed")
	}

	m.AddInteraction(d)
	m.Dispose()
	if !m.Disposed() || len(m.Interactions()) != 0 {
		t.Errorf("Dispose kept interactions")
	}
}
