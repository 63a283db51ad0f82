package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// PadFraction is the share of each dimension added on every side of a world
// extent before it is fitted.
const PadFraction = 0.05

// UnknownBoundsSignature identifies an absent bounds value.
const UnknownBoundsSignature = "bounds:unknown"

// PadExtent grows e by PadFraction of its width and height on each side.
func PadExtent(e Extent) Extent {
	dx := e.Width() * PadFraction
	dy := e.Height() * PadFraction
	return Extent{e[0] - dx, e[1] - dy, e[2] + dx, e[3] + dy}
}

// IsFiniteCoordinateTuple reports whether both ordinates of p are finite.
func IsFiniteCoordinateTuple(p orb.Point) bool {
	return finite(p[0]) && finite(p[1])
}

// CreateBoundsSignature fingerprints b so cached camera state can be matched
// against the bounds it was computed for. Equal bounds yield equal strings.
func CreateBoundsSignature(b *Bounds) string {
	if b == nil {
		return UnknownBoundsSignature
	}
	return fmt.Sprintf("bounds:%.6f,%.6f,%.6f,%.6f", b.West, b.South, b.East, b.North)
}
