package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are tried in order when QUESTMAP_CONFIG is unset.
var DefaultConfigPaths = []string{
	"questmap.yaml",
	"questmap.yml",
	"config.yaml",
}

const (
	ConfigPathEnvVar = "QUESTMAP_CONFIG"
	envPrefix        = "QUESTMAP_"
)

// Load builds the configuration from the first config file found and
// validates it.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit YAML file. An empty path skips the file.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"data_source": "data.source",
	"data_dir":    "data.dir",

	"api_base_url":         "api.base_url",
	"api_timeout":          "api.timeout",
	"api_rate_per_second":  "api.rate_per_second",
	"api_burst":            "api.burst",
	"api_breaker_failures": "api.breaker_failures",
	"api_tileset_ttl":      "api.tileset_ttl",

	"world":          "map.world",
	"cells_max_area": "map.cells_max_area",
	"frame_interval": "map.frame_interval",
	"settle_delay":   "map.settle_delay",

	"campaign_id":  "campaign.id",
	"regions_file": "campaign.regions_file",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_file":   "logging.file",

	"metrics_listen": "metrics.listen",
}

// envTransformFunc maps QUESTMAP_* variables onto config keys. Unknown
// variables are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
