package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-s string   database secret id
//	-d string   database driver (mysql, pgx)
//	-k string   storage backend (s3, minio)
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-t int      signed URL validity, seconds
//	-l string   log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so -c/-config and -env are left to the other layers.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-k", "-b", "-g", "-e", "-u", "-p", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DBSecretID, "s", config.DBSecretID, "database secret id")
	fs.StringVar(&config.DBDriver, "d", config.DBDriver, "database driver")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	signedURLTTL := fs.Int("t", int(config.SignedURLTTL.Seconds()), "signed URL validity (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SignedURLTTL = time.Duration(*signedURLTTL) * time.Second
}
