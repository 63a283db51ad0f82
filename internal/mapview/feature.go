// Package mapview is the rendering-agnostic map surface: a camera over the
// shared pixel projection, an ordered stack of layers and their sources, and
// the polygon drawing interaction.
package mapview

import "github.com/paulmach/orb"

// Category tags a feature with the kind of world object it depicts.
type Category string

const (
	CategoryBurg             Category = "burg"
	CategoryRoute            Category = "route"
	CategoryRiver            Category = "river"
	CategoryMarker           Category = "marker"
	CategoryCell             Category = "cell"
	CategoryCampaignLocation Category = "campaign_location"
	CategorySketch           Category = "sketch"
)

// Feature is a renderable geometry with a stable id and the raw upstream
// attributes it was built from.
type Feature struct {
	ID       string
	Category Category
	Name     string
	Geometry orb.Geometry
	Raw      map[string]any
}
