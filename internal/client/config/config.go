package config

import "time"

// Config holds runtime settings for the gallery CLI.
//
// Fields:
//   - ServerURL: base URL of the gallery HTTP API.
//   - RequestTimeout: upper bound for a single API call or download.
//   - DownloadDir: directory downloaded originals are written to.
//   - OnlineCheckInterval: how often the client probes /health.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	DownloadDir         string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 30 * time.Second
	c.DownloadDir = "downloads"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
