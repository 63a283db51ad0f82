// Package geodata fetches world metadata, tile-set listings and per-category
// vector features, either from the map API or from exported GeoJSON files.
package geodata

import (
	"errors"
	"math"

	"questmap/internal/geom"
)

var (
	// ErrAreaTooLarge rejects cell requests whose bounds cover more than the
	// configured area. It is returned before any I/O.
	ErrAreaTooLarge = errors.New("requested area too large for cell data")
	// ErrNotFound reports a missing world or category.
	ErrNotFound = errors.New("not found")
)

// DefaultCellsMaxArea is the largest bounds area, in square map units, for
// which cells may be requested.
const DefaultCellsMaxArea = 5e10

// World is one independently addressable map.
type World struct {
	ID             string       `json:"id" validate:"required"`
	Name           string       `json:"name"`
	Bounds         *geom.Bounds `json:"bounds,omitempty"`
	WidthPixels    int          `json:"width_pixels" validate:"gte=0"`
	HeightPixels   int          `json:"height_pixels" validate:"gte=0"`
	MetersPerPixel float64      `json:"meters_per_pixel" validate:"gte=0"`
}

// PixelBounds derives bounds from the raster dimensions: the map's top-left
// corner sits at the origin and y grows northwards, so the map lies below it.
func (w World) PixelBounds() (geom.Bounds, bool) {
	if w.WidthPixels <= 0 || w.HeightPixels <= 0 || !(w.MetersPerPixel > 0) {
		return geom.Bounds{}, false
	}
	return geom.Bounds{
		West:  0,
		North: 0,
		East:  float64(w.WidthPixels) * w.MetersPerPixel,
		South: -float64(w.HeightPixels) * w.MetersPerPixel,
	}, true
}

// EffectiveBounds prefers explicit bounds and falls back to PixelBounds.
func (w World) EffectiveBounds() *geom.Bounds {
	if w.Bounds != nil && w.Bounds.Valid() {
		b := *w.Bounds
		return &b
	}
	if b, ok := w.PixelBounds(); ok {
		return &b
	}
	return nil
}

// TileSet is a configured source of base imagery. Zoom limits are pointers so
// an absent value can be told apart from zero.
type TileSet struct {
	ID             string   `json:"id" koanf:"id" validate:"required"`
	Name           string   `json:"name" koanf:"name"`
	BaseURL        string   `json:"base_url" koanf:"base_url" validate:"required"`
	Format         string   `json:"format" koanf:"format"`
	MinZoom        *float64 `json:"min_zoom" koanf:"min_zoom"`
	MaxZoom        *float64 `json:"max_zoom" koanf:"max_zoom"`
	TileSize       int      `json:"tile_size" koanf:"tile_size" validate:"gte=0"`
	WorldID        string   `json:"world_map_id" koanf:"world_id"`
	WidthPixels    int      `json:"width_pixels" koanf:"width_pixels" validate:"gte=0"`
	HeightPixels   int      `json:"height_pixels" koanf:"height_pixels" validate:"gte=0"`
	MetersPerPixel float64  `json:"meters_per_pixel" koanf:"meters_per_pixel" validate:"gte=0"`
	Attribution    string   `json:"attribution" koanf:"attribution"`
}

// ZoomRange returns the declared zoom limits, defaulting to 0 and 9 when a
// limit is absent or not finite. It does not check their order.
func (t *TileSet) ZoomRange() (minZoom, maxZoom float64) {
	minZoom, maxZoom = 0, 9
	if t == nil {
		return minZoom, maxZoom
	}
	if t.MinZoom != nil && isFinite(*t.MinZoom) {
		minZoom = *t.MinZoom
	}
	if t.MaxZoom != nil && isFinite(*t.MaxZoom) {
		maxZoom = *t.MaxZoom
	}
	return minZoom, maxZoom
}

// GridExtent is the tile grid the set was cut for, when it carries its own
// geo-reference.
func (t *TileSet) GridExtent() (geom.Extent, bool) {
	w := World{WidthPixels: t.WidthPixels, HeightPixels: t.HeightPixels, MetersPerPixel: t.MetersPerPixel}
	b, ok := w.PixelBounds()
	if !ok {
		return geom.Extent{}, false
	}
	return b.Extent(), true
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
