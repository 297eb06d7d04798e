package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Plugin holds deployment-level configuration: endpoint bases, the
// geocode cache backend, and operability knobs. It is distinct from
// Params, which travels with each job.
type Plugin struct {
	GeocodingURL  string
	ForecastURL   string
	AirQualityURL string

	CacheBackend     string // "file" or "memcached"
	CacheDir         string
	MemcachedAddrs   string
	MemcachedTimeout time.Duration

	MetricsFile string
	APIKey      string
}

type filePlugin struct {
	Endpoints struct {
		Geocoding  string `yaml:"geocoding"`
		Forecast   string `yaml:"forecast"`
		AirQuality string `yaml:"air_quality"`
	} `yaml:"endpoints"`

	Cache struct {
		Backend   string `yaml:"backend"`
		Dir       string `yaml:"dir"`
		Memcached struct {
			Addrs   string `yaml:"addrs"`
			Timeout string `yaml:"timeout"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Metrics struct {
		File string `yaml:"file"`
	} `yaml:"metrics"`
}

// DefaultPlugin returns the built-in configuration plus environment
// overrides, ignoring any config file. The API key comes from
// METEO_API_KEY and METRICS_FILE names the metrics textfile.
func DefaultPlugin() *Plugin {
	cfg := &Plugin{
		GeocodingURL:  "https://geocoding-api.open-meteo.com/v1/search",
		ForecastURL:   "https://api.open-meteo.com/v1/forecast",
		AirQualityURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
		CacheBackend:  "file",
	}
	cfg.APIKey = os.Getenv("METEO_API_KEY")
	cfg.MetricsFile = os.Getenv("METRICS_FILE")
	return cfg
}

// LoadPlugin reads the optional plugin config file named by
// PLUGIN_CONFIG (default config/plugin.yaml). A missing file yields
// pure defaults; a present but malformed file is an error.
func LoadPlugin() (*Plugin, error) {
	cfg := DefaultPlugin()

	path := os.Getenv("PLUGIN_CONFIG")
	if path == "" {
		path = "config/plugin.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read plugin config: %w", err)
		}
		return cfg, nil
	}

	var fc filePlugin
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse plugin config %s: %w", path, err)
	}
	applyFile(cfg, &fc)

	if v := os.Getenv("METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	return cfg, nil
}

func applyFile(cfg *Plugin, fc *filePlugin) {
	if fc.Endpoints.Geocoding != "" {
		cfg.GeocodingURL = fc.Endpoints.Geocoding
	}
	if fc.Endpoints.Forecast != "" {
		cfg.ForecastURL = fc.Endpoints.Forecast
	}
	if fc.Endpoints.AirQuality != "" {
		cfg.AirQualityURL = fc.Endpoints.AirQuality
	}
	if fc.Cache.Backend != "" {
		cfg.CacheBackend = fc.Cache.Backend
	}
	cfg.CacheDir = fc.Cache.Dir
	cfg.MemcachedAddrs = fc.Cache.Memcached.Addrs
	if fc.Cache.Memcached.Timeout != "" {
		if d, err := time.ParseDuration(fc.Cache.Memcached.Timeout); err == nil {
			cfg.MemcachedTimeout = d
		}
	}
	if fc.Metrics.File != "" {
		cfg.MetricsFile = fc.Metrics.File
	}
}
