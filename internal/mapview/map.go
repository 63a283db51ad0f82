package mapview

import (
	"sort"

	"github.com/paulmach/orb"
)

// Interaction is a pointer tool attached to a Map.
type Interaction interface {
	Active() bool
}

// Map binds a view, a layer stack and a surface size. Pixel coordinates have
// their origin at the top-left of the surface with y growing downwards.
type Map struct {
	view         *View
	layers       []Layer
	size         [2]int
	interactions []Interaction
	disposed     bool
}

func New(view *View, layers ...Layer) *Map {
	m := &Map{view: view, layers: append([]Layer(nil), layers...)}
	sort.SliceStable(m.layers, func(i, j int) bool { return m.layers[i].ZIndex() < m.layers[j].ZIndex() })
	return m
}

func (m *Map) View() *View     { return m.view }
func (m *Map) Layers() []Layer { return m.layers }
func (m *Map) Size() [2]int    { return m.size }
func (m *Map) Disposed() bool  { return m.disposed }

// SetSize records the surface dimensions, normally after a container resize.
func (m *Map) SetSize(w, h int) {
	m.size = [2]int{max(w, 0), max(h, 0)}
}

// HasSize reports whether both dimensions are positive.
func (m *Map) HasSize() bool {
	return m.size[0] > 0 && m.size[1] > 0
}

// Dispose detaches the surface. A disposed map keeps its state for reading
// but owns no interactions.
func (m *Map) Dispose() {
	m.interactions = nil
	m.disposed = true
}

func (m *Map) AddInteraction(i Interaction) {
	m.interactions = append(m.interactions, i)
}

func (m *Map) RemoveInteraction(i Interaction) {
	for k, cur := range m.interactions {
		if cur == i {
			m.interactions = append(m.interactions[:k], m.interactions[k+1:]...)
			return
		}
	}
}

func (m *Map) Interactions() []Interaction { return m.interactions }

// CoordinateToPixel projects a map coordinate onto the surface.
func (m *Map) CoordinateToPixel(p orb.Point) (x, y float64) {
	res := m.view.Resolution()
	c := m.view.Center()
	x = (p[0]-c[0])/res + float64(m.size[0])/2
	y = (c[1]-p[1])/res + float64(m.size[1])/2
	return x, y
}

// PixelToCoordinate is the inverse of CoordinateToPixel.
func (m *Map) PixelToCoordinate(x, y float64) orb.Point {
	res := m.view.Resolution()
	c := m.view.Center()
	return orb.Point{
		c[0] + (x-float64(m.size[0])/2)*res,
		c[1] - (y-float64(m.size[1])/2)*res,
	}
}
