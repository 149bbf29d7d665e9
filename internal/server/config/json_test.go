package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"addr":                    "127.0.0.1:9090",
		"database_dsn":            "vault.db",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "168h",
		"app_url":                 "https://app.example.com",
		"totp_issuer":             "MyIssuer",
		"s3_access_key":           "user",
		"s3_secret_key":           "password",
		"s3_bucket":               "bucket",
		"s3_region":               "region",
		"s3_base_endpoint":        "base_endpoint",
		"rate_limit_rps":          2.5,
		"rate_limit_burst":        10,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
		assert.Equal(t, "vault.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 168*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "https://app.example.com", cfg.AppURL)
		assert.Equal(t, "MyIssuer", cfg.TOTPIssuer)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
		assert.Equal(t, 10, cfg.RateLimitBurst)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			Addr:                  "defaults:1234",
			DatabaseDSN:           "vault.db",
			SecretKey:             "key",
			TokenValidityDuration: 2 * time.Hour,
			AppURL:                "https://app",
			TOTPIssuer:            "Issuer",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.Addr)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "missing.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
