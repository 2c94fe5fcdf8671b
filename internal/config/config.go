// Package config loads and saves rangekit's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

const (
	appName   = "rangekit"
	envPrefix = "RANGEKIT"

	// DriverFile stores ranges in a JSON file.
	DriverFile = "file"
	// DriverSQLite stores ranges in a SQLite database.
	DriverSQLite = "sqlite"
)

// Config holds application configuration loaded from YAML.
type Config struct {
	Timezone         string       `yaml:"timezone" mapstructure:"timezone"`
	FallbackTimezone string       `yaml:"fallback_timezone" mapstructure:"fallback_timezone"`
	DefaultPreset    string       `yaml:"default_preset" mapstructure:"default_preset"`
	LogLevel         string       `yaml:"log_level" mapstructure:"log_level"`
	Store            StoreConfig  `yaml:"store" mapstructure:"store"`
	Zones            ZonesConfig  `yaml:"zones" mapstructure:"zones"`
	Source           SourceConfig `yaml:"source" mapstructure:"source"`

	configFile string
}

// StoreConfig selects where saved ranges live.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ZonesConfig restricts which IANA zones the engine accepts.
type ZonesConfig struct {
	Allow []string `yaml:"allow" mapstructure:"allow"`
	Deny  []string `yaml:"deny" mapstructure:"deny"`
}

// SourceConfig points at a downstream service that reports the authoritative zone.
type SourceConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DefaultConfigDir returns ~/.config/rangekit.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir, err := filepath.Abs(filepath.Join(home, ".config", appName))
	if err != nil {
		return filepath.Join(home, ".config", appName)
	}
	return dir
}

// DefaultConfigPath returns ~/.config/rangekit/rangekit.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), appName+".yaml")
}

// Load reads configuration from configPath, or from DefaultConfigPath when it is
// empty. A missing default file is not an error; a missing explicit file is.
// RANGEKIT_* environment variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults")
	} else {
		configFile = v.ConfigFileUsed()
		slog.Debug("loaded config file", "path", configFile)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configFile = configFile
	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "")
	v.SetDefault("fallback_timezone", "UTC")
	v.SetDefault("default_preset", daterange.SevenDay.String())
	v.SetDefault("log_level", "info")

	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "")

	v.SetDefault("zones.allow", []string{})
	v.SetDefault("zones.deny", []string{})

	v.SetDefault("source.url", "")
	v.SetDefault("source.timeout", 10*time.Second)
}

// ConfigFile returns the file the config was read from, or "" for defaults.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// Preset returns the configured default preset. Unknown tags mean SevenDay.
func (c *Config) Preset() daterange.Preset {
	p, _ := daterange.ParsePreset(c.DefaultPreset)
	return p
}

// StorePath returns the store location, defaulting by driver.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Driver == DriverSQLite {
		return filepath.Join(DefaultConfigDir(), "ranges.db")
	}
	return filepath.Join(DefaultConfigDir(), "ranges.json")
}

// Validate checks zones, preset, store driver and log level, and creates the
// store's parent directory.
func (c *Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Zones.Allow...), c.Zones.Deny...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid zone pattern %q: %w", pattern, err)
		}
	}
	for _, tz := range []string{c.Timezone, c.FallbackTimezone} {
		if tz == "" {
			continue
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}
	if c.DefaultPreset != "" {
		if _, ok := daterange.ParsePreset(c.DefaultPreset); !ok {
			return fmt.Errorf("invalid default_preset %q", c.DefaultPreset)
		}
	}
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, "":
	default:
		return fmt.Errorf("invalid store driver %q: want %s or %s", c.Store.Driver, DriverFile, DriverSQLite)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.StorePath()), 0700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	return nil
}

// Save writes the config to configPath as YAML with 0600 permissions, creating
// parent directories as needed.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	payload := map[string]any{
		"timezone":          c.Timezone,
		"fallback_timezone": c.FallbackTimezone,
		"default_preset":    c.DefaultPreset,
		"log_level":         c.LogLevel,
		"store": map[string]any{
			"driver": c.Store.Driver,
			"path":   c.Store.Path,
		},
		"zones": map[string]any{
			"allow": c.Zones.Allow,
			"deny":  c.Zones.Deny,
		},
		"source": map[string]any{
			"url":     c.Source.URL,
			"timeout": c.Source.Timeout.String(),
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, b, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
