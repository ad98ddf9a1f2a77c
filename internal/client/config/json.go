package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// go through timex.Duration so they may be written as "3s" or nanoseconds.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DownloadDir         string         `json:"download_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values loaded from the JSON file given by
// -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	jc := JsonConfig{
		ServerURL:           cfg.ServerURL,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		DownloadDir:         cfg.DownloadDir,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.DownloadDir = jc.DownloadDir
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
}
