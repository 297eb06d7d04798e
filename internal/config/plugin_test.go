package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPlugin_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("PLUGIN_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("METEO_API_KEY", "")
	t.Setenv("METRICS_FILE", "")

	cfg, err := LoadPlugin()
	if err != nil {
		t.Fatalf("LoadPlugin() error = %v", err)
	}
	if cfg.ForecastURL != "https://api.open-meteo.com/v1/forecast" {
		t.Errorf("ForecastURL = %q", cfg.ForecastURL)
	}
	if cfg.CacheBackend != "file" {
		t.Errorf("CacheBackend = %q, want file", cfg.CacheBackend)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestLoadPlugin_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yaml")
	body := `
endpoints:
  forecast: "http://localhost:9999/forecast"
cache:
  backend: memcached
  memcached:
    addrs: "cache1:11211, cache2:11211"
    timeout: 250ms
metrics:
  file: /var/lib/metrics/xyplug-weather.prom
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("PLUGIN_CONFIG", path)
	t.Setenv("METEO_API_KEY", "key-from-env")
	t.Setenv("METRICS_FILE", "")

	cfg, err := LoadPlugin()
	if err != nil {
		t.Fatalf("LoadPlugin() error = %v", err)
	}
	if cfg.ForecastURL != "http://localhost:9999/forecast" {
		t.Errorf("ForecastURL = %q", cfg.ForecastURL)
	}
	// Unset endpoints keep their defaults.
	if cfg.GeocodingURL != "https://geocoding-api.open-meteo.com/v1/search" {
		t.Errorf("GeocodingURL = %q", cfg.GeocodingURL)
	}
	if cfg.CacheBackend != "memcached" || cfg.MemcachedAddrs != "cache1:11211, cache2:11211" {
		t.Errorf("cache config = %q %q", cfg.CacheBackend, cfg.MemcachedAddrs)
	}
	if cfg.MemcachedTimeout != 250*time.Millisecond {
		t.Errorf("MemcachedTimeout = %s, want 250ms", cfg.MemcachedTimeout)
	}
	if cfg.MetricsFile != "/var/lib/metrics/xyplug-weather.prom" {
		t.Errorf("MetricsFile = %q", cfg.MetricsFile)
	}
	if cfg.APIKey != "key-from-env" {
		t.Errorf("APIKey = %q, want env value", cfg.APIKey)
	}
}

func TestLoadPlugin_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.yaml")
	if err := os.WriteFile(path, []byte("{{{{"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("PLUGIN_CONFIG", path)

	if _, err := LoadPlugin(); err == nil {
		t.Error("LoadPlugin() error = nil, want parse failure")
	}
}

func TestLoadPlugin_MetricsFileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yaml")
	if err := os.WriteFile(path, []byte("metrics:\n  file: /from/file.prom\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("PLUGIN_CONFIG", path)
	t.Setenv("METRICS_FILE", "/from/env.prom")

	cfg, err := LoadPlugin()
	if err != nil {
		t.Fatalf("LoadPlugin() error = %v", err)
	}
	if cfg.MetricsFile != "/from/env.prom" {
		t.Errorf("MetricsFile = %q, want env override", cfg.MetricsFile)
	}
}
