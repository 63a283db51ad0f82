package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

var ErrNotPolygonal = errors.New("geometry is not a polygon or multipolygon")

// ToMultiPolygon normalizes polygonal geometry. A single polygon becomes a
// one-member multipolygon; a multipolygon passes through unchanged.
func ToMultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, ErrNotPolygonal
		}
		return orb.MultiPolygon{v}, nil
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, ErrNotPolygonal
		}
		return v, nil
	case orb.Bound:
		return orb.MultiPolygon{v.ToPolygon()}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotPolygonal, g)
	}
}

// EncodeGeometry renders g as a GeoJSON geometry object.
func EncodeGeometry(g orb.Geometry) ([]byte, error) {
	return geojson.NewGeometry(g).MarshalJSON()
}

// DecodeGeometry parses a GeoJSON geometry object.
func DecodeGeometry(data []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}

// ParseWKT reads a POLYGON or MULTIPOLYGON in well-known text and closes any
// ring left open by the author.
func ParseWKT(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}
	mp, err := ToMultiPolygon(g)
	if err != nil {
		return nil, err
	}
	for _, poly := range mp {
		for i, ring := range poly {
			poly[i] = closeRing(ring)
		}
	}
	if _, single := g.(orb.Polygon); single {
		return mp[0], nil
	}
	return mp, nil
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}
