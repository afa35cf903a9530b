package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SERIALHTTP_PORT or
// SERIALHTTP_LOG_LEVEL.
const EnvPrefix = "SERIALHTTP"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"host":           "host",
	"port":           "port",
	"env":            "env",
	"buffer-size":    "buffer_size",
	"max-path-len":   "max_path_len",
	"route-capacity": "route_capacity",
	"concurrency":    "concurrency",
	"read-timeout":   "read_timeout",
	"defer-accept":   "defer_accept",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"metrics":        "metrics.enabled",
	"metrics-addr":   "metrics.addr",
}

// RegisterFlags adds the configuration flags to fs. Flags only override the
// file and environment when set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "interface to listen on (empty for all)")
	fs.Int("port", 8080, "HTTP server port")
	fs.String("env", "development", "environment (development/production)")
	fs.Int("buffer-size", 4096, "receive buffer size in bytes; longer requests are truncated")
	fs.Int("max-path-len", 99, "longest path a route may be registered under")
	fs.Int("route-capacity", 0, "maximum routes per method (0 for unbounded)")
	fs.Int("concurrency", 1, "connections served at once (1 keeps the serial loop)")
	fs.Duration("read-timeout", 0, "deadline for reading a request (0 for none)")
	fs.Duration("defer-accept", 0, "hold connections back from accept until they send data, Linux only (0 for off)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, text)")
	fs.Bool("metrics", false, "expose Prometheus metrics")
	fs.String("metrics-addr", "127.0.0.1:9090", "address of the metrics endpoint")
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file. When empty, serialhttp.yaml is looked
	// up in the working directory and /etc/serialhttp/, and may be absent.
	File string
	// Flags, if set, overrides file and environment values for changed flags.
	Flags *pflag.FlagSet
}

// Load resolves configuration from defaults, the config file, SERIALHTTP_*
// environment variables and flags, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("serialhttp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/serialhttp/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("env", "development")
	v.SetDefault("buffer_size", 4096)
	v.SetDefault("max_path_len", 99)
	v.SetDefault("route_capacity", 0)
	v.SetDefault("concurrency", 1)
	v.SetDefault("read_timeout", "0s")
	v.SetDefault("defer_accept", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9090")
	v.SetDefault("metrics.namespace", "serialhttp")
}
