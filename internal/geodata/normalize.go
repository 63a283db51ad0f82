package geodata

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

// Normalize converts a feature collection into map features of one category.
// Features without geometry are dropped. When bounds is non-nil only
// features intersecting it are kept.
func Normalize(cat mapview.Category, fc *geojson.FeatureCollection, bounds *geom.Bounds) []*mapview.Feature {
	if fc == nil {
		return nil
	}
	out := make([]*mapview.Feature, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if bounds != nil && !f.Geometry.Bound().Intersects(bounds.Bound()) {
			continue
		}
		id := FeatureID(cat, f, i)
		if seen[id] {
			id = positionalID(cat, i)
			for seen[id] {
				id += "+"
			}
		}
		seen[id] = true
		out = append(out, &mapview.Feature{
			ID:       id,
			Category: cat,
			Name:     featureName(cat, f.Properties),
			Geometry: f.Geometry,
			Raw:      map[string]any(f.Properties),
		})
	}
	return out
}

// FeatureID picks a stable id: an explicit string id first, then a numeric
// id attribute, then the feature's position in the payload.
func FeatureID(cat mapview.Category, f *geojson.Feature, index int) string {
	if s, ok := f.ID.(string); ok && s != "" {
		return s
	}
	if s, ok := f.Properties["id"].(string); ok && s != "" {
		return s
	}
	for _, key := range []string{string(cat) + "_id", "id", "cell", "i"} {
		if n, ok := numericID(f.Properties[key]); ok {
			return n
		}
	}
	if n, ok := numericID(f.ID); ok {
		return n
	}
	return positionalID(cat, index)
}

func positionalID(cat mapview.Category, index int) string {
	return fmt.Sprintf("%s-%d", cat, index)
}

func numericID(v any) (string, bool) {
	switch n := v.(type) {
	case float64:
		if !isFinite(n) {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

func featureName(cat mapview.Category, props geojson.Properties) string {
	if s, ok := props["name"].(string); ok && s != "" {
		return s
	}
	if cat == mapview.CategoryMarker {
		if s, ok := props["type"].(string); ok {
			return s
		}
	}
	return ""
}

// CheckCellsArea rejects bounds whose area exceeds maxArea. A non-positive
// maxArea falls back to DefaultCellsMaxArea.
func CheckCellsArea(b geom.Bounds, maxArea float64) error {
	if maxArea <= 0 {
		maxArea = DefaultCellsMaxArea
	}
	if area := b.Area(); area > maxArea {
		return fmt.Errorf("%w: %.0f exceeds %.0f", ErrAreaTooLarge, area, maxArea)
	}
	return nil
}
