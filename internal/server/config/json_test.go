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
		"endpoint_addr_grpc":              "www.example:9000",
		"endpoint_addr_http":              ":8181",
		"database_dsn":                    "fit.db",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": "3m",
		"s3_bucket":                       "bucket",
		"photo_url_expiry":                "5m",
		"stripe_price_id":                 "price_1",
		"checkout_success_url":            "https://fit.example/?status=approved",
		"rate_limit":                      1.5,
		"rate_burst":                      3,
		"token_cleanup_spec":              "@daily",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, ":8181", cfg.EndpointAddrHTTP)
		assert.Equal(t, "fit.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 5*time.Minute, cfg.PhotoURLExpiry)
		assert.Equal(t, "price_1", cfg.StripePriceID)
		assert.Equal(t, "https://fit.example/?status=approved", cfg.CheckoutSuccessURL)
		assert.Equal(t, 1.5, cfg.RateLimit)
		assert.Equal(t, 3, cfg.RateBurst)
		assert.Equal(t, "@daily", cfg.TokenCleanupSpec)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		p := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_region": "eu-north-1"})
		os.Args = []string{"testbin", "-c", p}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "eu-north-1", cfg.S3Region)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, 20, cfg.RateBurst)
	})

	t.Run("no config flag leaves values", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{DatabaseDSN: "keep", RateLimit: 7}
		parseJson(cfg)

		assert.Equal(t, "keep", cfg.DatabaseDSN)
		assert.Equal(t, 7.0, cfg.RateLimit)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-config", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
