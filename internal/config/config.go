package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kazu728/reauthfi/internal/platform"
)

// Config represents the complete reauthfi configuration
type Config struct {
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection"`
	Recovery  RecoveryConfig  `mapstructure:"recovery" yaml:"recovery"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	UI        UIConfig        `mapstructure:"ui" yaml:"ui"`
}

// DetectionConfig controls how captive portals are probed
type DetectionConfig struct {
	// TimeoutSeconds bounds every probe request and shell command (default: 10)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// GatewayFirst probes the default gateway before the well-known endpoints
	GatewayFirst bool `mapstructure:"gateway_first" yaml:"gateway_first"`
	// NoOpen reports a detected portal without opening the browser
	NoOpen bool `mapstructure:"no_open" yaml:"no_open"`
	// ExtraEndpoints are probed after the platform's built-in endpoints
	ExtraEndpoints []platform.Endpoint `mapstructure:"extra_endpoints" yaml:"extra_endpoints"`
}

// RecoveryConfig controls the Wi-Fi reset-and-retry path
type RecoveryConfig struct {
	// Enabled allows a single Wi-Fi power cycle when the network is not ready (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// SettleDelay is the pause between powering the interface off and on
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// ReconnectDelay is the wait for reassociation before the retry pass
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay" yaml:"reconnect_delay"`
}

// LoggingConfig controls the structured debug log
type LoggingConfig struct {
	// Enabled turns on the JSON log file (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// File is the log path; empty means <config dir>/reauthfi.log
	File string `mapstructure:"file" yaml:"file"`
	// MaxSizeMB rotates the file at this size
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is how many rotated files to keep
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// UIConfig controls console rendering
type UIConfig struct {
	// Progress draws a bar while each probe is in flight (terminal only)
	Progress bool `mapstructure:"progress" yaml:"progress"`
	// Color enables styled output when the terminal supports it
	Color bool `mapstructure:"color" yaml:"color"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			TimeoutSeconds: 10,
			GatewayFirst:   false,
			NoOpen:         false,
			ExtraEndpoints: []platform.Endpoint{},
		},
		Recovery: RecoveryConfig{
			Enabled:        true,
			SettleDelay:    2 * time.Second,
			ReconnectDelay: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "", // Empty means <config dir>/reauthfi.log
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		UI: UIConfig{
			Progress: true,
			Color:    true,
		},
	}
}

// Timeout returns the probe timeout as a time.Duration
func (c *DetectionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveFile returns the log file path. A leading ~ expands to the home
// directory and relative paths are resolved against the config directory.
func (c *LoggingConfig) ResolveFile() string {
	if c.File == "" {
		return filepath.Join(ConfigDir(), "reauthfi.log")
	}

	path := c.File

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(ConfigDir(), path)
	}

	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Detection defaults
	viper.SetDefault("detection.timeout_seconds", defaults.Detection.TimeoutSeconds)
	viper.SetDefault("detection.gateway_first", defaults.Detection.GatewayFirst)
	viper.SetDefault("detection.no_open", defaults.Detection.NoOpen)
	viper.SetDefault("detection.extra_endpoints", defaults.Detection.ExtraEndpoints)

	// Recovery defaults
	viper.SetDefault("recovery.enabled", defaults.Recovery.Enabled)
	viper.SetDefault("recovery.settle_delay", defaults.Recovery.SettleDelay)
	viper.SetDefault("recovery.reconnect_delay", defaults.Recovery.ReconnectDelay)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// UI defaults
	viper.SetDefault("ui.progress", defaults.UI.Progress)
	viper.SetDefault("ui.color", defaults.UI.Color)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reauthfi")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reauthfi"
	}
	return filepath.Join(home, ".config", "reauthfi")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// MarshalYAML renders the delays as duration strings ("2s") so a written
// config file reads back through viper unchanged.
func (c RecoveryConfig) MarshalYAML() (any, error) {
	return struct {
		Enabled        bool   `yaml:"enabled"`
		SettleDelay    string `yaml:"settle_delay"`
		ReconnectDelay string `yaml:"reconnect_delay"`
	}{
		Enabled:        c.Enabled,
		SettleDelay:    c.SettleDelay.String(),
		ReconnectDelay: c.ReconnectDelay.String(),
	}, nil
}
