package geodata

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// Region is a campaign area drawn on a world.
type Region struct {
	ID         string          `json:"id" validate:"required"`
	CampaignID string          `json:"campaign_id" validate:"required"`
	WorldID    string          `json:"world_id"`
	Name       string          `json:"name,omitempty"`
	Geometry   json.RawMessage `json:"geometry" validate:"required"`
	Context    map[string]any  `json:"context,omitempty"`
}

// RegionStore persists campaign regions.
type RegionStore interface {
	SaveRegion(ctx context.Context, r Region) error
	ListRegions(ctx context.Context, campaignID, worldID string) ([]*mapview.Feature, error)
}

// Feature renders r as a map feature for the region layer.
func (r Region) Feature() (*mapview.Feature, error) {
	g, err := geom.DecodeGeometry(r.Geometry)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{
		"id":          r.ID,
		"campaign_id": r.CampaignID,
		"world_id":    r.WorldID,
	}
	if r.Name != "" {
		raw["name"] = r.Name
	}
	return &mapview.Feature{
		ID:       r.ID,
		Category: mapview.CategoryCampaignLocation,
		Name:     r.Name,
		Geometry: g,
		Raw:      raw,
	}, nil
}

// geoJSONFeature is the on-disk form of r.
func (r Region) geoJSONFeature() (*geojson.Feature, error) {
	g, err := geom.DecodeGeometry(r.Geometry)
	if err != nil {
		return nil, err
	}
	f := geojson.NewFeature(g)
	f.ID = r.ID
	f.Properties["campaign_id"] = r.CampaignID
	f.Properties["world_id"] = r.WorldID
	if r.Name != "" {
		f.Properties["name"] = r.Name
	}
	if len(r.Context) > 0 {
		f.Properties["context"] = r.Context
	}
	return f, nil
}
