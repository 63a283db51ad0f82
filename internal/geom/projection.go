package geom

import "math"

const (
	// ProjectionCode names the flat pixel coordinate system every world uses.
	ProjectionCode = "QUESTMAP:PIXELS"
	ProjectionUnits = "pixels"

	// TileSize is the edge of one tile in screen pixels at zoom 0.
	TileSize = 256
)

// DefaultExtent is used whenever a world has no usable bounds.
var DefaultExtent = Extent{0, -20480000, 20480000, 0}

// Projection is the shared pixel-space projection. Its extent follows the
// active world and drives the resolution ladder of every view built on it.
type Projection struct {
	extent Extent
}

func NewProjection() *Projection {
	return &Projection{extent: DefaultExtent}
}

func (p *Projection) Code() string  { return ProjectionCode }
func (p *Projection) Units() string { return ProjectionUnits }
func (p *Projection) Extent() Extent { return p.extent }

// ExtentFor maps bounds to an extent without touching the projection.
// Absent or unusable bounds resolve to DefaultExtent.
func ExtentFor(b *Bounds) Extent {
	if b == nil || !b.Valid() {
		return DefaultExtent
	}
	return b.Extent()
}

// SetExtent applies the extent for b and returns it.
func (p *Projection) SetExtent(b *Bounds) Extent {
	p.extent = ExtentFor(b)
	return p.extent
}

// ApplyExtent installs a precomputed working extent, typically a padded one.
// Non-finite or empty extents are ignored.
func (p *Projection) ApplyExtent(e Extent) {
	if !e.Finite() || e.Width() <= 0 || e.Height() <= 0 {
		return
	}
	p.extent = e
}

// MaxResolution is the map units per pixel at zoom 0.
func (p *Projection) MaxResolution() float64 {
	return math.Max(p.extent.Width(), p.extent.Height()) / TileSize
}
