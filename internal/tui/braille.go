package tui

import (
	"math"
	"sort"
)

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// dotBits maps a micro-pixel (column, row) within a cell to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
}

func (b *brailleBuf) mask(cx, cy int) uint8 { return b.m[cy][cx] }

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawSegment clips a float segment to the buffer before rasterizing it, so
// segments far off screen cost nothing.
func (b *brailleBuf) drawSegment(x0, y0, x1, y1 float64) {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(b.w*2-1), float64(b.h*4-1))
	if !ok {
		return
	}
	b.drawLineMicro(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
}

// fillRing fills a closed ring with the even-odd rule, one micro row at a time.
func (b *brailleBuf) fillRing(pts [][2]float64) {
	if len(pts) < 3 {
		return
	}
	wMic := b.w * 2
	var xs []float64
	for yMic := 0; yMic < b.h*4; yMic++ {
		y := float64(yMic) + 0.5
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			c := pts[(i+1)%len(pts)]
			if a[1] == c[1] {
				continue
			}
			if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
				t := (y - a[1]) / (c[1] - a[1])
				xs = append(xs, a[0]+t*(c[0]-a[0]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Ceil(xs[i])))
			end := min(wMic-1, int(math.Floor(xs[i+1])))
			for xMic := start; xMic <= end; xMic++ {
				b.setPixel(xMic, yMic)
			}
		}
	}
}

// clipSegment clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, maxX - x0, y0, maxY - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
