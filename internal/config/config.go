// Package config loads questmap settings from defaults, an optional YAML
// file and QUESTMAP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"questmap/internal/geodata"
)

type Config struct {
	Data     DataConfig        `koanf:"data"`
	API      APIConfig         `koanf:"api"`
	Map      MapConfig         `koanf:"map"`
	Campaign CampaignConfig    `koanf:"campaign"`
	TileSets []geodata.TileSet `koanf:"tilesets" validate:"dive"`
	Logging  LoggingConfig     `koanf:"logging"`
	Metrics  MetricsConfig     `koanf:"metrics"`
}

// DataConfig selects where world data comes from.
type DataConfig struct {
	// Source is "http" for the map API or "file" for exported GeoJSON.
	Source string `koanf:"source" validate:"oneof=http file"`
	Dir    string `koanf:"dir"`
}

type APIConfig struct {
	BaseURL         string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout         time.Duration `koanf:"timeout" validate:"gte=0"`
	RatePerSecond   float64       `koanf:"rate_per_second" validate:"gte=0"`
	Burst           int           `koanf:"burst" validate:"gte=0"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	TileSetTTL      time.Duration `koanf:"tileset_ttl" validate:"gte=0"`
}

type MapConfig struct {
	// World is the id selected at start-up. Empty picks the first listed.
	World         string        `koanf:"world"`
	CellsMaxArea  float64       `koanf:"cells_max_area" validate:"gt=0"`
	FrameInterval time.Duration `koanf:"frame_interval" validate:"gt=0"`
	SettleDelay   time.Duration `koanf:"settle_delay" validate:"gt=0"`
}

type CampaignConfig struct {
	ID          string `koanf:"id"`
	RegionsFile string `koanf:"regions_file"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	File   string `koanf:"file"`
}

type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint. Empty disables it.
	Listen string `koanf:"listen" validate:"omitempty,hostname_port"`
}

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source: "http",
			Dir:    "data",
		},
		API: APIConfig{
			BaseURL:         "http://localhost:8000",
			Timeout:         15 * time.Second,
			RatePerSecond:   20,
			Burst:           10,
			BreakerFailures: 5,
			TileSetTTL:      5 * time.Minute,
		},
		Map: MapConfig{
			CellsMaxArea:  geodata.DefaultCellsMaxArea,
			FrameInterval: 16 * time.Millisecond,
			SettleDelay:   150 * time.Millisecond,
		},
		Campaign: CampaignConfig{
			RegionsFile: "regions.geojson",
		},
		TileSets: []geodata.TileSet{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "questmap.log",
		},
	}
}

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	switch c.Data.Source {
	case "http":
		if c.API.BaseURL == "" {
			return errors.New("api.base_url is required when data.source is http")
		}
	case "file":
		if c.Data.Dir == "" {
			return errors.New("data.dir is required when data.source is file")
		}
	}
	seen := make(map[string]bool, len(c.TileSets))
	for _, ts := range c.TileSets {
		if seen[ts.ID] {
			return fmt.Errorf("tilesets: duplicate id %q", ts.ID)
		}
		seen[ts.ID] = true
	}
	return nil
}
