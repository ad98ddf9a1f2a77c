package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{
			"-a", "127.0.0.1:9090", "-s", "prod/db", "-d", "pgx", "-k", "minio",
			"-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-u", "user", "-p", "password",
			"-t", "600", "-l", "debug",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP: "127.0.0.1:9090",
				DBSecretID:       "prod/db",
				DBDriver:         "pgx",
				StorageBackend:   "minio",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
				S3AccessKey:      "user",
				S3SecretKey:      "password",
				SignedURLTTL:     10 * time.Minute,
				LogLevel:         "debug",
			}},
		{name: "Foreign flags are ignored", args: []string{"-config", "x.json", "-env", ".env", "-a", ":7000"},
			expected: &Config{EndpointAddrHTTP: ":7000"}},
		{name: "Bad ttl", args: []string{"-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
