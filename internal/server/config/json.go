package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Duration fields use
// timex.Duration, which accepts strings such as "1h" as well as integer
// nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP   string            `json:"endpoint_addr_http"`
	DBSecretID         string            `json:"db_secret_id"`
	DBDriver           string            `json:"db_driver"`
	DBParams           map[string]string `json:"db_params"`
	DBPooled           bool              `json:"db_pooled"`
	RunMigrations      bool              `json:"run_migrations"`
	SecretsRegion      string            `json:"secrets_region"`
	SecretsEndpoint    string            `json:"secrets_endpoint"`
	StorageBackend     string            `json:"storage_backend"`
	S3Bucket           string            `json:"s3_bucket"`
	S3Region           string            `json:"s3_region"`
	S3BaseEndpoint     string            `json:"s3_base_endpoint"`
	S3AccessKey        string            `json:"s3_access_key"`
	S3SecretKey        string            `json:"s3_secret_key"`
	S3UsePathStyle     bool              `json:"s3_use_path_style"`
	SignedURLTTL       timex.Duration    `json:"signed_url_ttl"`
	SigningConcurrency int               `json:"signing_concurrency"`
	MaxUploadBytes     int64             `json:"max_upload_bytes"`
	LogLevel           string            `json:"log_level"`
	LogBackend         string            `json:"log_backend"`
}

// parseJson overlays the JSON file given with -c or -config onto config.
// Keys absent from the file keep their current values. Unreadable files and
// invalid JSON panic.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DBSecretID = c.DBSecretID
	config.DBDriver = c.DBDriver
	config.DBParams = c.DBParams
	config.DBPooled = c.DBPooled
	config.RunMigrations = c.RunMigrations
	config.SecretsRegion = c.SecretsRegion
	config.SecretsEndpoint = c.SecretsEndpoint
	config.StorageBackend = c.StorageBackend
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3UsePathStyle = c.S3UsePathStyle
	config.SignedURLTTL = c.SignedURLTTL.Duration
	config.SigningConcurrency = c.SigningConcurrency
	config.MaxUploadBytes = c.MaxUploadBytes
	config.LogLevel = c.LogLevel
	config.LogBackend = c.LogBackend
}

func fromConfig(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:   config.EndpointAddrHTTP,
		DBSecretID:         config.DBSecretID,
		DBDriver:           config.DBDriver,
		DBParams:           config.DBParams,
		DBPooled:           config.DBPooled,
		RunMigrations:      config.RunMigrations,
		SecretsRegion:      config.SecretsRegion,
		SecretsEndpoint:    config.SecretsEndpoint,
		StorageBackend:     config.StorageBackend,
		S3Bucket:           config.S3Bucket,
		S3Region:           config.S3Region,
		S3BaseEndpoint:     config.S3BaseEndpoint,
		S3AccessKey:        config.S3AccessKey,
		S3SecretKey:        config.S3SecretKey,
		S3UsePathStyle:     config.S3UsePathStyle,
		SignedURLTTL:       timex.Duration{Duration: config.SignedURLTTL},
		SigningConcurrency: config.SigningConcurrency,
		MaxUploadBytes:     config.MaxUploadBytes,
		LogLevel:           config.LogLevel,
		LogBackend:         config.LogBackend,
	}
}
