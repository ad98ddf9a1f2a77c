package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseEnv overlays environment variables onto config. A .env file (or the
// file given with -env) is loaded first; variables already set in the
// process environment take precedence over it.
//
// Recognized variables:
//
//	PORT                 HTTP port, bound on all interfaces
//	DB_SECRET_NAME       secret id of the database bundle
//	DB_DRIVER            mysql | pgx
//	DB_POOLED            bool
//	RUN_MIGRATIONS       bool
//	SECRETS_REGION       secret store region (AWS_REGION as fallback)
//	SECRETS_ENDPOINT     secret store endpoint override
//	STORAGE_BACKEND      s3 | minio
//	S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY
//	S3_USE_PATH_STYLE    bool
//	SIGNED_URL_TTL       duration ("1h") or seconds
//	SIGNING_CONCURRENCY  int
//	MAX_UPLOAD_BYTES     int
//	LOG_LEVEL, LOG_BACKEND
//
// Malformed values panic, like a malformed JSON file does.
func parseEnv(config *Config) {
	loadDotenv()

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.DBSecretID, "DB_SECRET_NAME")
	setString(&config.DBDriver, "DB_DRIVER")
	setBool(&config.DBPooled, "DB_POOLED")
	setBool(&config.RunMigrations, "RUN_MIGRATIONS")
	setString(&config.SecretsRegion, "AWS_REGION")
	setString(&config.SecretsRegion, "SECRETS_REGION")
	setString(&config.SecretsEndpoint, "SECRETS_ENDPOINT")
	setString(&config.StorageBackend, "STORAGE_BACKEND")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	setString(&config.S3AccessKey, "S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "S3_SECRET_KEY")
	setBool(&config.S3UsePathStyle, "S3_USE_PATH_STYLE")
	setTTL(&config.SignedURLTTL, "SIGNED_URL_TTL")
	if v, ok := lookup("SIGNING_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.SigningConcurrency = n
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxUploadBytes = n
	}
	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.LogBackend, "LOG_BACKEND")
}

func loadDotenv() {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	// .env in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		*dst = b
	}
}

// setTTL accepts a Go duration or a plain number of seconds.
func setTTL(dst *time.Duration, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
