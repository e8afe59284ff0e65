package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/flagx"
	"github.com/dmitrijs2005/gophfit/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Pointer fields tell an
// absent key from a zero value, so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	PhotoURLExpiry               *timex.Duration `json:"photo_url_expiry"`
	StripeSecretKey              *string         `json:"stripe_secret_key"`
	StripeWebhookSecret          *string         `json:"stripe_webhook_secret"`
	StripePriceID                *string         `json:"stripe_price_id"`
	CheckoutSuccessURL           *string         `json:"checkout_success_url"`
	CheckoutCancelURL            *string         `json:"checkout_cancel_url"`
	RateLimit                    *float64        `json:"rate_limit"`
	RateBurst                    *int            `json:"rate_burst"`
	TokenCleanupSpec             *string         `json:"token_cleanup_spec"`
	LogFormat                    *string         `json:"log_format"`
	LogLevel                     *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PhotoURLExpiry, c.PhotoURLExpiry)
	setString(&config.StripeSecretKey, c.StripeSecretKey)
	setString(&config.StripeWebhookSecret, c.StripeWebhookSecret)
	setString(&config.StripePriceID, c.StripePriceID)
	setString(&config.CheckoutSuccessURL, c.CheckoutSuccessURL)
	setString(&config.CheckoutCancelURL, c.CheckoutCancelURL)
	if c.RateLimit != nil {
		config.RateLimit = *c.RateLimit
	}
	if c.RateBurst != nil {
		config.RateBurst = *c.RateBurst
	}
	setString(&config.TokenCleanupSpec, c.TokenCleanupSpec)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
