package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Env           string        `mapstructure:"env"`
	BufferSize    int           `mapstructure:"buffer_size"`
	MaxPathLen    int           `mapstructure:"max_path_len"`
	RouteCapacity int           `mapstructure:"route_capacity"`
	Concurrency   int           `mapstructure:"concurrency"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	DeferAccept   time.Duration `mapstructure:"defer_accept"`
	Log           LogConfig     `mapstructure:"log"`
	Metrics       MetricsConfig `mapstructure:"metrics"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

// Addr returns the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.BufferSize < 16 {
		errs = append(errs, fmt.Errorf("buffer_size %d too small (min 16)", c.BufferSize))
	}
	if c.MaxPathLen <= 0 {
		errs = append(errs, fmt.Errorf("max_path_len must be positive, got %d", c.MaxPathLen))
	}
	if c.RouteCapacity < 0 {
		errs = append(errs, fmt.Errorf("route_capacity must not be negative, got %d", c.RouteCapacity))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("read_timeout must not be negative, got %s", c.ReadTimeout))
	}
	if c.DeferAccept < 0 {
		errs = append(errs, fmt.Errorf("defer_accept must not be negative, got %s", c.DeferAccept))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics enabled without metrics.addr"))
	}

	return errors.Join(errs...)
}
