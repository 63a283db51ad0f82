package tui

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen split between sidebar and map, in cells.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func computeLayout(width, height int, sidebar bool) layout {
	l := layout{
		contentW: max(10, width),
		contentH: max(4, height-headerHeight-footerHeight),
	}
	if sidebar {
		l.sidebarW = sidebarWidth
		l.mapX = sidebarWidth + 1
	}
	l.mapY = headerHeight
	l.mapW = max(10, l.contentW-l.sidebarW-1)
	l.mapH = l.contentH
	return l
}

func (l layout) contains(x, y int) bool {
	return x >= l.mapX && x < l.mapX+l.mapW && y >= l.mapY && y < l.mapY+l.mapH
}

// surfaceSize is the map surface in braille micro pixels.
func (l layout) surfaceSize() (int, int) { return l.mapW * 2, l.mapH * 4 }

// cellCenter converts a map cell to the surface pixel at its center.
func cellCenter(cx, cy int) (float64, float64) {
	return float64(cx*2) + 1, float64(cy*4) + 2
}
