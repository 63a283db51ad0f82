package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"questmap/internal/mapctl"
	"questmap/internal/mapview"
)

// cell is one rendered terminal cell. style indexes the layer palette; -1
// leaves the rune unstyled.
type cell struct {
	r     rune
	style int
}

// plotter rasterizes map geometries onto a braille buffer through the
// surface's projection. The surface is sized in micro pixels, so surface
// pixels and braille dots coincide.
type plotter struct {
	sm  *mapview.Map
	buf *brailleBuf
}

func (p plotter) px(pt orb.Point) (float64, float64) {
	return p.sm.CoordinateToPixel(pt)
}

func (p plotter) dot(pt orb.Point) {
	x, y := p.px(pt)
	if x < 0 || y < 0 {
		return
	}
	ix, iy := int(x), int(y)
	p.buf.setPixel(ix, iy)
	p.buf.setPixel(ix+1, iy)
	p.buf.setPixel(ix, iy+1)
	p.buf.setPixel(ix+1, iy+1)
}

func (p plotter) path(pts []orb.Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		p.dot(pts[0])
		return
	}
	px, py := p.px(pts[0])
	for _, pt := range pts[1:] {
		x, y := p.px(pt)
		p.buf.drawSegment(px, py, x, y)
		px, py = x, y
	}
	if closed {
		x, y := p.px(pts[0])
		p.buf.drawSegment(px, py, x, y)
	}
}

func (p plotter) polygon(poly orb.Polygon, fill bool) {
	if len(poly) == 0 {
		return
	}
	if fill {
		outer := make([][2]float64, 0, len(poly[0]))
		for _, pt := range poly[0] {
			x, y := p.px(pt)
			outer = append(outer, [2]float64{x, y})
		}
		p.buf.fillRing(outer)
	}
	for _, r := range poly {
		p.path(r, true)
	}
}

func (p plotter) geometry(g orb.Geometry, fill bool) {
	switch g := g.(type) {
	case orb.Point:
		p.dot(g)
	case orb.MultiPoint:
		for _, pt := range g {
			p.dot(pt)
		}
	case orb.LineString:
		p.path(g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			p.path(ls, false)
		}
	case orb.Ring:
		p.path(g, true)
	case orb.Polygon:
		p.polygon(g, fill)
	case orb.MultiPolygon:
		for _, poly := range g {
			p.polygon(poly, fill)
		}
	case orb.Bound:
		p.polygon(g.ToPolygon(), fill)
	case orb.Collection:
		for _, sub := range g {
			p.geometry(sub, fill)
		}
	}
}

// tileGrid outlines the base imagery tiles covering the view.
func tileGrid(sm *mapview.Map, src *mapview.TileSource, buf *brailleBuf) {
	view := sm.View()
	z := src.ZoomForResolution(view.Resolution())
	p := plotter{sm: sm, buf: buf}
	for _, t := range src.TilesForExtent(view.CalculateExtent(sm.Size()), z) {
		e := src.TileBounds(t)
		p.path([]orb.Point{{e[0], e[1]}, {e[2], e[1]}, {e[2], e[3]}, {e[0], e[3]}}, true)
	}
}

// renderMap draws the controller's layers into a w x h cell grid, bottom to
// top. Each cell shows the braille dots of the top-most layer that touched it.
func (m Model) renderMap(w, h int) string {
	sm := m.ctl.Map()
	if sm == nil || !sm.HasSize() {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dimStyle.Render("waiting for map..."))
	}

	var styles []lipgloss.Style
	var bufs []*brailleBuf
	if base := m.ctl.BaseLayer(); base != nil && base.Visible() && base.Source() != nil {
		b := newBrailleBuf(w, h)
		tileGrid(sm, base.Source(), b)
		bufs = append(bufs, b)
		styles = append(styles, gridStyle)
	}
	for _, l := range m.visibleLayers() {
		st := styleForLayer(l.Name())
		b := newBrailleBuf(w, h)
		p := plotter{sm: sm, buf: b}
		for _, f := range l.Source().Features() {
			p.geometry(f.Geometry, st.fill)
		}
		bufs = append(bufs, b)
		styles = append(styles, st.style)
	}

	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', style: -1}
			for i := len(bufs) - 1; i >= 0; i-- {
				if mask := bufs[i].mask(x, y); mask != 0 {
					grid[y][x] = cell{r: rune(0x2800 + int(mask)), style: i}
					break
				}
			}
		}
	}

	styles = append(styles, markerStyle)
	marker := len(styles) - 1
	if spawn := m.ctl.Layer(mapctl.LayerSpawn); spawn != nil && spawn.Visible() {
		for _, f := range spawn.Source().Features() {
			if pt, ok := f.Geometry.(orb.Point); ok {
				x, y := sm.CoordinateToPixel(pt)
				putCell(grid, int(x)/2, int(y)/4, cell{r: '◯', style: marker})
			}
		}
	}
	if m.hovering && m.ctl.IsDrawingRegion() {
		putCell(grid, m.hoverCellX, m.hoverCellY, cell{r: '+', style: marker})
	}
	return joinCells(grid, styles)
}

func putCell(grid [][]cell, x, y int, c cell) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = c
}

// joinCells renders the grid, styling runs of equally styled cells together.
func joinCells(grid [][]cell, styles []lipgloss.Style) string {
	lines := make([]string, len(grid))
	var sb, run strings.Builder
	for y, row := range grid {
		sb.Reset()
		cur := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur >= 0 {
				sb.WriteString(styles[cur].Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
