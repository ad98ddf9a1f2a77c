package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags handled here are passed to the flag set (see
// flagx.FilterArgs), so commands and their arguments pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the gallery server")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
