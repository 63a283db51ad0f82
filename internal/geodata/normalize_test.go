package geodata

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"questmap/internal/geom"
	"questmap/internal/mapview"
)

func TestFeatureIDPriority(t *testing.T) {
	mk := func(id any, props geojson.Properties) *geojson.Feature {
		f := geojson.NewFeature(orb.Point{1, 1})
		f.ID = id
		for k, v := range props {
			f.Properties[k] = v
		}
		return f
	}
	tests := []struct {
		name string
		f    *geojson.Feature
		want string
	}{
		{"string feature id", mk("b-7", geojson.Properties{"burg_id": 3.0}), "b-7"},
		{"string property id", mk(nil, geojson.Properties{"id": "alpha", "burg_id": 3.0}), "alpha"},
		{"category numeric id", mk(nil, geojson.Properties{"burg_id": 3.0, "id": 9.0}), "3"},
		{"numeric property id", mk(nil, geojson.Properties{"id": 9.0}), "9"},
		{"numeric feature id", mk(12.0, nil), "12"},
		{"positional", mk(nil, nil), "burg-4"},
	}
	for _, tt := range tests {
		if got := FeatureID(mapview.CategoryBurg, tt.f, 4); got != tt.want {
			t.Errorf("%s: FeatureID = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeUniqueIDsAndBounds(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for _, p := range []orb.Point{{1, 1}, {2, 2}, {500, 500}} {
		f := geojson.NewFeature(p)
		f.Properties["id"] = 1.0
		fc.Append(f)
	}
	fc.Append(&geojson.Feature{Type: "Feature", Properties: geojson.Properties{}})

	b := geom.Bounds{West: 0, South: 0, East: 10, North: 10}
	got := Normalize(mapview.CategoryRiver, fc, &b)
	if len(got) != 2 {
		t.Fatalf("Normalize kept %d features, want 2", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Errorf("duplicate ids: %q", got[0].ID)
	}
	if got[1].ID != "river-1" {
		t.Errorf("duplicate fell back to %q, want river-1", got[1].ID)
	}
	if got[0].Category != mapview.CategoryRiver {
		t.Errorf("category = %q", got[0].Category)
	}
}

func TestCheckCellsArea(t *testing.T) {
	small := geom.Bounds{West: 0, South: -1000, East: 1000, North: 0}
	if err := CheckCellsArea(small, 0); err != nil {
		t.Errorf("small area rejected: %v", err)
	}
	huge := geom.Bounds{West: 0, South: -300000, East: 300000, North: 0}
	if err := CheckCellsArea(huge, 0); !errors.Is(err, ErrAreaTooLarge) {
		t.Errorf("huge area err = %v, want ErrAreaTooLarge", err)
	}
	if err := CheckCellsArea(small, 10); !errors.Is(err, ErrAreaTooLarge) {
		t.Errorf("configured threshold not applied: %v", err)
	}
}

func TestWorldEffectiveBounds(t *testing.T) {
	w := World{ID: "w", WidthPixels: 100, HeightPixels: 50, MetersPerPixel: 2}
	b := w.EffectiveBounds()
	if b == nil || *b != (geom.Bounds{West: 0, South: -100, East: 200, North: 0}) {
		t.Errorf("EffectiveBounds = %v", b)
	}
	if (World{ID: "x"}).EffectiveBounds() != nil {
		t.Errorf("world without metadata has bounds")
	}
}

func TestTileSetZoomRange(t *testing.T) {
	var nilSet *TileSet
	if lo, hi := nilSet.ZoomRange(); lo != 0 || hi != 9 {
		t.Errorf("nil ZoomRange = %v, %v", lo, hi)
	}
	lo, hi := 2.0, 7.0
	ts := &TileSet{MinZoom: &lo, MaxZoom: &hi}
	if a, b := ts.ZoomRange(); a != 2 || b != 7 {
		t.Errorf("ZoomRange = %v, %v; want 2, 7", a, b)
	}
}
