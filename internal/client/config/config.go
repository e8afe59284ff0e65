package config

import "time"

// Config holds runtime settings for the GophFit client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DBPath: SQLite file backing the local mirror and stored tokens.
//   - RemoteBackend: "grpc" or "none" (local and guest use only).
//   - AIProvider / AIModel / AIKeys: generative backend and its credential pool.
//   - AIAttempts / AIBaseDelay / AIAttemptTimeout: retry policy for AI calls.
//   - CredentialStrategy: "random" or "roundrobin" key selection.
//   - RemoteCallTimeout: deadline of every remote store call.
//   - MirrorPassphrase: when set, the mirror is sealed with AES-GCM.
//   - StartURL: return URL the client was opened with (payment redirects).
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DBPath              string
	RemoteBackend       string
	AIProvider          string
	AIModel             string
	AIKeys              []string
	AIAttempts          int
	AIBaseDelay         time.Duration
	AIAttemptTimeout    time.Duration
	CredentialStrategy  string
	RemoteCallTimeout   time.Duration
	MirrorPassphrase    string
	LogFormat           string
	LogLevel            string
	StartURL            string
}

const (
	BackendGRPC = "grpc"
	BackendNone = "none"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "GOPHFIT"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DBPath = "gophfit.db"
	c.RemoteBackend = BackendGRPC
	c.AIProvider = ProviderGemini
	c.AIModel = ""
	c.AIKeys = nil
	c.AIAttempts = 3
	c.AIBaseDelay = time.Second
	c.AIAttemptTimeout = 60 * time.Second
	c.CredentialStrategy = "random"
	c.RemoteCallTimeout = 12 * time.Second
	c.MirrorPassphrase = ""
	c.LogFormat = "text"
	c.LogLevel = "warn"
	c.StartURL = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
