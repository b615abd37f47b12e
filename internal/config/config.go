// Package config handles persistent user configuration for vscale.
//
// Configuration is stored as JSON at ~/.config/vscale/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Environment
// variables prefixed with VSCALE_ override file values when loading.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDir   = "vscale"
	fileName = "config.json"

	// EnvPrefix is prepended to upper-cased file keys to form override
	// variable names, e.g. VSCALE_DEFAULT_LOCATION.
	EnvPrefix = "VSCALE"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	DefaultProvider string `json:"default_provider,omitempty" mapstructure:"default_provider"`
	DNSProvider     string `json:"dns_provider,omitempty" mapstructure:"dns_provider"`
	DefaultLocation string `json:"default_location,omitempty" mapstructure:"default_location"`
	APIURL          string `json:"api_url,omitempty" mapstructure:"api_url"`
}

// fileKeys lists the JSON keys of Config; each can be overridden from the
// environment.
var fileKeys = []string{"default_provider", "dns_provider", "default_location", "api_url"}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file and applies environment overrides.
// If the file does not exist, only the overrides are applied (not an error).
func Load() (*Config, error) {
	return load("", true)
}

// LoadFile reads the config file without environment overrides. Use it
// when the result will be saved back to disk.
func LoadFile() (*Config, error) {
	return load("", false)
}

// LoadFrom reads the config from the given path with environment
// overrides applied. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, withEnv bool) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		for _, key := range fileKeys {
			if err := v.BindEnv(key); err != nil {
				return nil, fmt.Errorf("config: failed to bind %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}
