package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Data.Source != "http" {
		t.Errorf("Data.Source = %q, want http", cfg.Data.Source)
	}
	if cfg.Map.CellsMaxArea != 5e10 {
		t.Errorf("Map.CellsMaxArea = %v, want 5e10", cfg.Map.CellsMaxArea)
	}
	if cfg.Map.SettleDelay != 150*time.Millisecond {
		t.Errorf("Map.SettleDelay = %v, want 150ms", cfg.Map.SettleDelay)
	}
	if cfg.Logging.File != "questmap.log" {
		t.Errorf("Logging.File = %q, want questmap.log", cfg.Logging.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questmap.yaml")
	yaml := `
data:
  source: file
  dir: /srv/exports
map:
  world: atlas
  settle_delay: 300ms
tilesets:
  - id: atlas-base
    base_url: http://tiles.local/atlas
    min_zoom: 0
    max_zoom: 6
    world_id: atlas
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUESTMAP_LOG_FORMAT", "console")
	t.Setenv("QUESTMAP_CAMPAIGN_ID", "camp-1")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data.Source != "file" || cfg.Data.Dir != "/srv/exports" {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.Map.World != "atlas" || cfg.Map.SettleDelay != 300*time.Millisecond {
		t.Errorf("Map = %+v", cfg.Map)
	}
	if cfg.Map.FrameInterval != 16*time.Millisecond {
		t.Errorf("FrameInterval = %v, want default 16ms", cfg.Map.FrameInterval)
	}
	if len(cfg.TileSets) != 1 || cfg.TileSets[0].MaxZoom == nil || *cfg.TileSets[0].MaxZoom != 6 {
		t.Fatalf("TileSets = %+v", cfg.TileSets)
	}
	if cfg.TileSets[0].WorldID != "atlas" {
		t.Errorf("TileSets[0].WorldID = %q", cfg.TileSets[0].WorldID)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Campaign.ID != "camp-1" {
		t.Errorf("Campaign.ID = %q, want camp-1", cfg.Campaign.ID)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad source", func(c *Config) { c.Data.Source = "ftp" }, "Source"},
		{"file without dir", func(c *Config) { c.Data.Source = "file"; c.Data.Dir = "" }, "data.dir"},
		{"http without url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"zero area", func(c *Config) { c.Map.CellsMaxArea = 0 }, "CellsMaxArea"},
	}
	for _, tt := range tests {
		cfg := defaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %s", tt.name, err, tt.want)
		}
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("QUESTMAP_API_BASE_URL"); got != "api.base_url" {
		t.Errorf("envTransformFunc = %q, want api.base_url", got)
	}
	if got := envTransformFunc("QUESTMAP_UNKNOWN"); got != "" {
		t.Errorf("unknown key mapped to %q", got)
	}
}
