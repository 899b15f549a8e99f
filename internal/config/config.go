// Package config provides configuration loading and structs for docreader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/docreader/internal/searchpath"
)

// EnvJSONDirs overrides javadoc.json_dirs when set.
const EnvJSONDirs = "JAVADOC_JSON_DIRS"

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Javadoc JavadocConfig `yaml:"javadoc"`
	Bundle  BundleConfig  `yaml:"bundle"`
	Cache   CacheConfig   `yaml:"cache"`
	Watch   WatchConfig   `yaml:"watch"`
}

// JavadocConfig locates extracted javadoc documents.
type JavadocConfig struct {
	// JSONDirs is the raw comma-separated search path.
	JSONDirs string `yaml:"json_dirs"`
}

// SearchPath returns the parsed search path.
func (j *JavadocConfig) SearchPath() []string {
	return searchpath.Parse(j.JSONDirs)
}

// BundleConfig locates the bundled fallback. DatabasePath wins over Dir when
// both are set.
type BundleConfig struct {
	Dir          string `yaml:"dir"`
	DatabasePath string `yaml:"database_path"`
}

// CacheConfig bounds the document cache. A negative size disables caching.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// WatchConfig controls cache invalidation on search-path changes.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a configuration with defaults applied and no search path.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	dirs := cfg.Javadoc.SearchPath()
	for i := range dirs {
		dirs[i] = expandPath(dirs[i], configDir)
	}
	cfg.Javadoc.JSONDirs = searchpath.Join(dirs)
	cfg.Bundle.Dir = expandPath(cfg.Bundle.Dir, configDir)
	cfg.Bundle.DatabasePath = expandPath(cfg.Bundle.DatabasePath, configDir)

	return &cfg, nil
}

// ApplyEnv overrides settings from the environment.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvJSONDirs); strings.TrimSpace(v) != "" {
		cfg.Javadoc.JSONDirs = v
	}
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath resolves "./" paths against configDir and "~/" paths against the
// home directory. Other paths are returned unchanged.
func expandPath(path string, configDir string) string {
	switch {
	case path == "" || filepath.IsAbs(path):
		return path
	case strings.HasPrefix(path, "./") || path == ".":
		return filepath.Join(configDir, path)
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
