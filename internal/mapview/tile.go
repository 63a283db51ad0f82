package mapview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"

	"questmap/internal/geom"
)

// maxTilesPerFrame caps TilesForExtent so a runaway zoom cannot enumerate
// millions of tiles.
const maxTilesPerFrame = 4096

// TileSource addresses XYZ tiles laid over a world extent with the origin at
// the top-left corner.
type TileSource struct {
	URLTemplate string
	Extent      geom.Extent
	MinZoom     int
	MaxZoom     int
	TileSize    int
	Attribution string
}

// NewTileSource validates the template and grid. The template must contain
// the {z}, {x} and {y} placeholders.
func NewTileSource(template string, extent geom.Extent, minZoom, maxZoom, tileSize int) (*TileSource, error) {
	if template == "" {
		return nil, errors.New("tile url template is empty")
	}
	for _, ph := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(template, ph) {
			return nil, fmt.Errorf("tile url template %q lacks %s", template, ph)
		}
	}
	if !extent.Finite() || extent.Width() <= 0 || extent.Height() <= 0 {
		return nil, fmt.Errorf("tile grid extent %v is not usable", extent)
	}
	if tileSize <= 0 {
		tileSize = geom.TileSize
	}
	return &TileSource{
		URLTemplate: template,
		Extent:      extent,
		MinZoom:     minZoom,
		MaxZoom:     maxZoom,
		TileSize:    tileSize,
	}, nil
}

// TileURL expands the template for t.
func (s *TileSource) TileURL(t maptile.Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(int(t.Z)),
		"{x}", strconv.FormatUint(uint64(t.X), 10),
		"{y}", strconv.FormatUint(uint64(t.Y), 10),
	)
	return r.Replace(s.URLTemplate)
}

// Resolution is the map units per tile pixel at zoom z.
func (s *TileSource) Resolution(z int) float64 {
	return math.Max(s.Extent.Width(), s.Extent.Height()) / float64(s.TileSize) / math.Pow(2, float64(z))
}

// ZoomForResolution picks the tile level closest to res, clamped to the
// source's range.
func (s *TileSource) ZoomForResolution(res float64) int {
	z := int(math.Round(math.Log2(s.Resolution(0) / res)))
	return min(max(z, s.MinZoom), s.MaxZoom)
}

// TileBounds returns the map rectangle covered by t.
func (s *TileSource) TileBounds(t maptile.Tile) geom.Extent {
	span := s.Resolution(int(t.Z)) * float64(s.TileSize)
	minX := s.Extent[0] + float64(t.X)*span
	maxY := s.Extent[3] - float64(t.Y)*span
	return geom.Extent{minX, maxY - span, minX + span, maxY}
}

// TilesForExtent lists the tiles of level z that intersect e.
func (s *TileSource) TilesForExtent(e geom.Extent, z int) []maptile.Tile {
	span := s.Resolution(z) * float64(s.TileSize)
	n := int(math.Pow(2, float64(z)))
	x0 := clampIndex(int(math.Floor((e[0]-s.Extent[0])/span)), n)
	x1 := clampIndex(int(math.Floor((e[2]-s.Extent[0])/span)), n)
	y0 := clampIndex(int(math.Floor((s.Extent[3]-e[3])/span)), n)
	y1 := clampIndex(int(math.Floor((s.Extent[3]-e[1])/span)), n)

	var tiles []maptile.Tile
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if len(tiles) == maxTilesPerFrame {
				return tiles
			}
			tiles = append(tiles, maptile.New(uint32(x), uint32(y), maptile.Zoom(z)))
		}
	}
	return tiles
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}
