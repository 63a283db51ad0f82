package geodata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"

	"questmap/internal/geom"
	"questmap/internal/logging"
	"questmap/internal/mapview"
)

const mapInfoSuffix = "_mapinfo.json"

// FileSource serves worlds exported as <world>_<category>.geojson plus a
// <world>_mapinfo.json metadata file per world. Parsed collections are kept
// in memory; bounds filtering happens per request.
type FileSource struct {
	dir          string
	cellsMaxArea float64
	tileSets     []TileSet
	regionsFile  string

	mu          sync.Mutex
	collections map[string]*geojson.FeatureCollection
	regionsMu   sync.Mutex
}

// FileSourceConfig configures a FileSource.
type FileSourceConfig struct {
	Dir          string
	CellsMaxArea float64
	TileSets     []TileSet
	// RegionsFile receives saved regions as a GeoJSON feature collection.
	RegionsFile string
}

func NewFileSource(cfg FileSourceConfig) *FileSource {
	return &FileSource{
		dir:          cfg.Dir,
		cellsMaxArea: cfg.CellsMaxArea,
		tileSets:     append([]TileSet(nil), cfg.TileSets...),
		regionsFile:  cfg.RegionsFile,
		collections:  make(map[string]*geojson.FeatureCollection),
	}
}

func (s *FileSource) LoadBurgs(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return s.loadCategory(ctx, worldID, "burgs", mapview.CategoryBurg, b)
}

func (s *FileSource) LoadRoutes(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return s.loadCategory(ctx, worldID, "routes", mapview.CategoryRoute, b)
}

func (s *FileSource) LoadRivers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return s.loadCategory(ctx, worldID, "rivers", mapview.CategoryRiver, b)
}

func (s *FileSource) LoadMarkers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return s.loadCategory(ctx, worldID, "markers", mapview.CategoryMarker, b)
}

// LoadCells rejects oversized bounds before touching the file.
func (s *FileSource) LoadCells(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	if err := CheckCellsArea(b, s.cellsMaxArea); err != nil {
		return nil, err
	}
	return s.loadCategory(ctx, worldID, "cells", mapview.CategoryCell, b)
}

func (s *FileSource) loadCategory(ctx context.Context, worldID, file string, cat mapview.Category, b geom.Bounds) ([]*mapview.Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fc, err := s.collection(worldID, file)
	if err != nil {
		return nil, err
	}
	return Normalize(cat, fc, &b), nil
}

// collection parses and caches one exported file. A missing file is an
// empty collection: not every export carries every category.
func (s *FileSource) collection(worldID, file string) (*geojson.FeatureCollection, error) {
	if worldID == "" || strings.ContainsAny(worldID, `/\`) {
		return nil, fmt.Errorf("%w: world %q", ErrNotFound, worldID)
	}
	key := worldID + "_" + file
	s.mu.Lock()
	defer s.mu.Unlock()
	if fc, ok := s.collections[key]; ok {
		return fc, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, key+".geojson"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logging.Debug().Str("file", key).Msg("no export for category")
		fc := geojson.NewFeatureCollection()
		s.collections[key] = fc
		return fc, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	s.collections[key] = fc
	return fc, nil
}

type mapInfo struct {
	Name           string       `json:"name"`
	WidthPixels    int          `json:"width_pixels"`
	HeightPixels   int          `json:"height_pixels"`
	MetersPerPixel float64      `json:"meters_per_pixel"`
	Bounds         *geom.Bounds `json:"bounds"`
}

// ListWorlds reads every <world>_mapinfo.json in the directory.
func (s *FileSource) ListWorlds(ctx context.Context) ([]World, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+mapInfoSuffix))
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	sort.Strings(matches)
	worlds := make([]World, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		var info mapInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		id := strings.TrimSuffix(filepath.Base(path), mapInfoSuffix)
		name := info.Name
		if name == "" {
			name = id
		}
		worlds = append(worlds, World{
			ID:             id,
			Name:           name,
			Bounds:         info.Bounds,
			WidthPixels:    info.WidthPixels,
			HeightPixels:   info.HeightPixels,
			MetersPerPixel: info.MetersPerPixel,
		})
	}
	return worlds, nil
}

// ListTileSets returns the tile sets given in the configuration.
func (s *FileSource) ListTileSets(context.Context) ([]TileSet, error) {
	return append([]TileSet(nil), s.tileSets...), nil
}

// SaveRegion appends r to the regions file.
func (s *FileSource) SaveRegion(_ context.Context, r Region) error {
	if s.regionsFile == "" {
		return errors.New("no regions file configured")
	}
	f, err := r.geoJSONFeature()
	if err != nil {
		return fmt.Errorf("region geometry: %w", err)
	}

	s.regionsMu.Lock()
	defer s.regionsMu.Unlock()
	fc, err := s.readRegions()
	if err != nil {
		return err
	}
	fc.Append(f)
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}
	tmp := s.regionsFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write regions: %w", err)
	}
	return os.Rename(tmp, s.regionsFile)
}

// ListRegions returns saved regions for a campaign on worldID.
func (s *FileSource) ListRegions(_ context.Context, campaignID, worldID string) ([]*mapview.Feature, error) {
	if s.regionsFile == "" {
		return nil, nil
	}
	s.regionsMu.Lock()
	fc, err := s.readRegions()
	s.regionsMu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []*mapview.Feature
	for _, f := range fc.Features {
		if f.Properties.MustString("campaign_id", "") != campaignID || f.Properties.MustString("world_id", "") != worldID {
			continue
		}
		id, _ := f.ID.(string)
		out = append(out, &mapview.Feature{
			ID:       id,
			Category: mapview.CategoryCampaignLocation,
			Name:     f.Properties.MustString("name", ""),
			Geometry: f.Geometry,
			Raw:      map[string]any(f.Properties),
		})
	}
	return out, nil
}

func (s *FileSource) readRegions() (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(s.regionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return geojson.NewFeatureCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}
	return fc, nil
}
