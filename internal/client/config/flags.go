package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-d string   local database path
//	-r string   remote backend (grpc|none)
//	-p string   AI provider (gemini|openai)
//	-m string   AI model
//	-k string   comma-separated AI keys
//	-l string   log level
//	-u string   start URL
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other loaders
// do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-r", "-p", "-m", "-k", "-l", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.RemoteBackend, "r", cfg.RemoteBackend, "remote backend (grpc|none)")
	fs.StringVar(&cfg.AIProvider, "p", cfg.AIProvider, "AI provider (gemini|openai)")
	fs.StringVar(&cfg.AIModel, "m", cfg.AIModel, "AI model")
	keys := fs.String("k", strings.Join(cfg.AIKeys, ","), "comma-separated AI keys")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.StartURL, "u", cfg.StartURL, "start URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.AIKeys = splitKeys(*keys)
}

func splitKeys(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
