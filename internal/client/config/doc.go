// Package config loads runtime configuration for the GophFit client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with GOPHFIT_ (see parseEnv); a .env
//     file in the working directory is honoured.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite database
//	-r string   remote backend: grpc or none
//	-p string   AI provider: gemini or openai
//	-m string   AI model name
//	-k string   comma-separated AI keys
//	-l string   log level
//	-u string   start URL
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "db_path": "gophfit.db",
//	  "remote_backend": "grpc",
//	  "ai_provider": "gemini",
//	  "ai_keys": ["key-1", "key-2"],
//	  "ai_attempts": 3,
//	  "ai_base_delay": "1s",
//	  "ai_attempt_timeout": "60s",
//	  "credential_strategy": "random",
//	  "remote_call_timeout": "12s",
//	  "log_format": "text",
//	  "log_level": "warn"
//	}
package config
