// Package envx overlays configuration with environment variables. A .env
// file in the working directory is loaded first when present; variables
// already set in the process environment win over it.
package envx

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source reads prefixed environment variables through viper.
type Source struct {
	v *viper.Viper
}

// Load prepares a Source for variables named PREFIX_KEY. Extra dotenv
// files may be given; with none, ".env" is tried.
func Load(prefix string, files ...string) *Source {
	_ = godotenv.Load(files...)

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Source{v: v}
}

// String sets *dst when key is present.
func (s *Source) String(key string, dst *string) {
	if s.v.IsSet(key) {
		*dst = s.v.GetString(key)
	}
}

// Strings reads a comma-separated list into *dst when key is present.
// Blank items are dropped.
func (s *Source) Strings(key string, dst *[]string) {
	if !s.v.IsSet(key) {
		return
	}
	var out []string
	for _, item := range strings.Split(s.v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

// Int sets *dst when key is present.
func (s *Source) Int(key string, dst *int) {
	if s.v.IsSet(key) {
		*dst = s.v.GetInt(key)
	}
}

// Float sets *dst when key is present.
func (s *Source) Float(key string, dst *float64) {
	if s.v.IsSet(key) {
		*dst = s.v.GetFloat64(key)
	}
}

// Duration sets *dst when key is present. Values use Go duration syntax.
func (s *Source) Duration(key string, dst *time.Duration) {
	if s.v.IsSet(key) {
		*dst = s.v.GetDuration(key)
	}
}
