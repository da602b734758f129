package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/xmidt-org/httphook"
)

// Config is the hookserver configuration.  It can be read from YAML, TOML, or JSON.
type Config struct {
	Address         string   `json:"address" yaml:"address" toml:"address"`
	LogLevel        string   `json:"logLevel" yaml:"logLevel" toml:"logLevel"`
	ShutdownTimeout Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" toml:"shutdownTimeout"`
	SlowThreshold   Duration `json:"slowThreshold" yaml:"slowThreshold" toml:"slowThreshold"`
	Verbose         bool     `json:"verbose" yaml:"verbose" toml:"verbose"`

	Metrics MetricsConfig   `json:"metrics" yaml:"metrics" toml:"metrics"`
	Hook    httphook.Config `json:"hook" yaml:"hook" toml:"hook"`
}

// Duration is a time.Duration written as a string such as "10s" in every
// configuration format.
type Duration time.Duration

// String returns the same form time.Duration does.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText writes d in time.ParseDuration form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses text with time.ParseDuration.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(v)
	return nil
}

// MetricsConfig controls the Prometheus metrics exposed at /metrics.
type MetricsConfig struct {
	Namespace string `json:"namespace" yaml:"namespace" toml:"namespace"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		LogLevel:        "info",
		ShutdownTimeout: Duration(5 * time.Second),
		SlowThreshold:   Duration(time.Second),
		Metrics: MetricsConfig{
			Namespace: "hookserver",
		},
		Hook: httphook.Config{
			Exclude:      []string{"/bye", "/health", "/metrics"},
			ExcludeRegex: []string{`^/\d$`},
		},
	}
}

// LoadConfig reads the file at path over DefaultConfig.  The format is chosen
// by file extension.  An empty path yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)

	case ".toml":
		err = toml.Unmarshal(data, &cfg)

	case ".json":
		err = json.Unmarshal(data, &cfg)

	default:
		err = fmt.Errorf("unsupported configuration format %q", ext)
	}

	if err != nil {
		return cfg, fmt.Errorf("unable to load configuration from %s: %w", path, err)
	}

	return cfg, nil
}

// Level parses LogLevel.  An empty level is info.
func (cfg Config) Level() (slog.Level, error) {
	var l slog.Level
	if len(cfg.LogLevel) == 0 {
		return slog.LevelInfo, nil
	}

	err := l.UnmarshalText([]byte(cfg.LogLevel))
	return l, err
}
