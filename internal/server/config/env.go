package config

import "github.com/dmitrijs2005/gophfit/internal/envx"

// parseEnv overlays Config with GOPHFIT_* variables, e.g. GOPHFIT_DATABASE_DSN.
func parseEnv(cfg *Config) {
	env := envx.Load(EnvPrefix)

	env.String("endpoint_addr_grpc", &cfg.EndpointAddrGRPC)
	env.String("endpoint_addr_http", &cfg.EndpointAddrHTTP)
	env.String("database_dsn", &cfg.DatabaseDSN)
	env.String("secret_key", &cfg.SecretKey)
	env.Duration("access_token_validity_duration", &cfg.AccessTokenValidityDuration)
	env.Duration("refresh_token_validity_duration", &cfg.RefreshTokenValidityDuration)
	env.String("s3_root_user", &cfg.S3RootUser)
	env.String("s3_root_password", &cfg.S3RootPassword)
	env.String("s3_bucket", &cfg.S3Bucket)
	env.String("s3_region", &cfg.S3Region)
	env.String("s3_base_endpoint", &cfg.S3BaseEndpoint)
	env.Duration("photo_url_expiry", &cfg.PhotoURLExpiry)
	env.String("stripe_secret_key", &cfg.StripeSecretKey)
	env.String("stripe_webhook_secret", &cfg.StripeWebhookSecret)
	env.String("stripe_price_id", &cfg.StripePriceID)
	env.String("checkout_success_url", &cfg.CheckoutSuccessURL)
	env.String("checkout_cancel_url", &cfg.CheckoutCancelURL)
	env.Float("rate_limit", &cfg.RateLimit)
	env.Int("rate_burst", &cfg.RateBurst)
	env.String("token_cleanup_spec", &cfg.TokenCleanupSpec)
	env.String("log_format", &cfg.LogFormat)
	env.String("log_level", &cfg.LogLevel)
}
