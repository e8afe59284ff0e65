package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/flagx"
	"github.com/dmitrijs2005/gophfit/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// slice fields distinguish "absent" from a zero value, so a partial file
// only overrides what it names.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DBPath              *string         `json:"db_path"`
	RemoteBackend       *string         `json:"remote_backend"`
	AIProvider          *string         `json:"ai_provider"`
	AIModel             *string         `json:"ai_model"`
	AIKeys              []string        `json:"ai_keys"`
	AIAttempts          *int            `json:"ai_attempts"`
	AIBaseDelay         *timex.Duration `json:"ai_base_delay"`
	AIAttemptTimeout    *timex.Duration `json:"ai_attempt_timeout"`
	CredentialStrategy  *string         `json:"credential_strategy"`
	RemoteCallTimeout   *timex.Duration `json:"remote_call_timeout"`
	MirrorPassphrase    *string         `json:"mirror_passphrase"`
	LogFormat           *string         `json:"log_format"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing happens. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.RemoteBackend, jc.RemoteBackend)
	setString(&cfg.AIProvider, jc.AIProvider)
	setString(&cfg.AIModel, jc.AIModel)
	if jc.AIKeys != nil {
		cfg.AIKeys = jc.AIKeys
	}
	if jc.AIAttempts != nil {
		cfg.AIAttempts = *jc.AIAttempts
	}
	setDuration(&cfg.AIBaseDelay, jc.AIBaseDelay)
	setDuration(&cfg.AIAttemptTimeout, jc.AIAttemptTimeout)
	setString(&cfg.CredentialStrategy, jc.CredentialStrategy)
	setDuration(&cfg.RemoteCallTimeout, jc.RemoteCallTimeout)
	setString(&cfg.MirrorPassphrase, jc.MirrorPassphrase)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
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
