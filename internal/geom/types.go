package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Bounds is a world rectangle in pixel-space map units.
type Bounds struct {
	West  float64 `json:"west" koanf:"west"`
	South float64 `json:"south" koanf:"south"`
	East  float64 `json:"east" koanf:"east"`
	North float64 `json:"north" koanf:"north"`
}

// Valid reports whether all four edges are finite and the rectangle has area.
func (b Bounds) Valid() bool {
	return finite(b.West) && finite(b.South) && finite(b.East) && finite(b.North) &&
		b.West < b.East && b.South < b.North
}

func (b Bounds) Width() float64  { return b.East - b.West }
func (b Bounds) Height() float64 { return b.North - b.South }
func (b Bounds) Area() float64   { return b.Width() * b.Height() }

// Extent returns b as [minx, miny, maxx, maxy].
func (b Bounds) Extent() Extent { return Extent{b.West, b.South, b.East, b.North} }

// Bound converts b to an orb bound for intersection tests.
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

// Extent is a rectangle as [minx, miny, maxx, maxy].
type Extent [4]float64

func (e Extent) Width() float64  { return e[2] - e[0] }
func (e Extent) Height() float64 { return e[3] - e[1] }

func (e Extent) Center() orb.Point {
	return orb.Point{(e[0] + e[2]) / 2, (e[1] + e[3]) / 2}
}

// Finite reports whether every component is a finite number.
func (e Extent) Finite() bool {
	for _, v := range e {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Bounds converts e back to west/south/east/north form.
func (e Extent) Bounds() Bounds {
	return Bounds{West: e[0], South: e[1], East: e[2], North: e[3]}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
