package config

import "github.com/dmitrijs2005/gophfit/internal/envx"

// parseEnv overlays Config with GOPHFIT_* variables, e.g. GOPHFIT_AI_KEYS
// as a comma-separated list.
func parseEnv(cfg *Config) {
	env := envx.Load(EnvPrefix)

	env.String("server_endpoint_addr", &cfg.ServerEndpointAddr)
	env.Duration("online_check_interval", &cfg.OnlineCheckInterval)
	env.String("db_path", &cfg.DBPath)
	env.String("remote_backend", &cfg.RemoteBackend)
	env.String("ai_provider", &cfg.AIProvider)
	env.String("ai_model", &cfg.AIModel)
	env.Strings("ai_keys", &cfg.AIKeys)
	env.Int("ai_attempts", &cfg.AIAttempts)
	env.Duration("ai_base_delay", &cfg.AIBaseDelay)
	env.Duration("ai_attempt_timeout", &cfg.AIAttemptTimeout)
	env.String("credential_strategy", &cfg.CredentialStrategy)
	env.Duration("remote_call_timeout", &cfg.RemoteCallTimeout)
	env.String("mirror_passphrase", &cfg.MirrorPassphrase)
	env.String("log_format", &cfg.LogFormat)
	env.String("log_level", &cfg.LogLevel)
	env.String("start_url", &cfg.StartURL)
}
