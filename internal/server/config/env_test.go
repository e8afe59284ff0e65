package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("GOPHFIT_DATABASE_DSN", "postgres://db/fit")
	t.Setenv("GOPHFIT_STRIPE_SECRET_KEY", "sk_test_1")
	t.Setenv("GOPHFIT_RATE_LIMIT", "2.5")
	t.Setenv("GOPHFIT_RATE_BURST", "5")
	t.Setenv("GOPHFIT_ACCESS_TOKEN_VALIDITY_DURATION", "2m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "postgres://db/fit", cfg.DatabaseDSN)
	assert.Equal(t, "sk_test_1", cfg.StripeSecretKey)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}
