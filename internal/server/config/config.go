// Package config handles configuration for the gallery server, layering
// defaults, environment (and .env), a JSON file and command-line flags.
package config

import "time"

// Storage backends.
const (
	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Config holds runtime settings for the gallery server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - DBSecretID: secret store id of the database credential bundle.
//   - DBDriver: "mysql" or "pgx". DBParams are appended to the DSN.
//   - DBPooled: share one pool for the process instead of a connection per operation.
//   - RunMigrations: apply the embedded schema migrations at startup.
//   - SecretsRegion / SecretsEndpoint: secret store client settings.
//   - StorageBackend: "s3" (aws-sdk-go-v2) or "minio" (minio-go).
//   - S3*: object storage settings. Empty keys use the default AWS chain.
//   - SignedURLTTL: validity of gallery links.
//   - SigningConcurrency: parallel signatures per gallery request.
//   - MaxUploadBytes: limit of the POST /upload body.
//   - LogLevel / LogBackend: logger settings ("slog" or "zap").
type Config struct {
	EndpointAddrHTTP   string
	DBSecretID         string
	DBDriver           string
	DBParams           map[string]string
	DBPooled           bool
	RunMigrations      bool
	SecretsRegion      string
	SecretsEndpoint    string
	StorageBackend     string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
	S3AccessKey        string
	S3SecretKey        string
	S3UsePathStyle     bool
	SignedURLTTL       time.Duration
	SigningConcurrency int
	MaxUploadBytes     int64
	LogLevel           string
	LogBackend         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.DBSecretID = "gallery/db"
	c.DBDriver = "mysql"
	c.SecretsRegion = "us-east-1"
	c.StorageBackend = StorageS3
	c.S3Bucket = "gallery"
	c.S3Region = "us-east-1"
	c.SignedURLTTL = 3600 * time.Second
	c.SigningConcurrency = 8
	c.MaxUploadBytes = 10 << 20
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
