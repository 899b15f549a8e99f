package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return dir, path
}

func TestLoad(t *testing.T) {
	_, path := writeConfig(t, `
javadoc:
  json_dirs: " , /opt/javadoc , /srv/javadoc"
bundle:
  database_path: "/var/lib/docreader/bundle.db"
cache:
  size: 16
watch:
  enabled: true
  debounce: 250ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/javadoc", "/srv/javadoc"}, cfg.Javadoc.SearchPath())
	assert.Equal(t, "/var/lib/docreader/bundle.db", cfg.Bundle.DatabasePath)
	assert.Equal(t, 16, cfg.Cache.Size)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.False(t, cfg.Debug, "debug should default to false when unset")
}

func TestLoad_debugTrue(t *testing.T) {
	_, path := writeConfig(t, "debug: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir, path := writeConfig(t, `
javadoc:
  json_dirs: "./build/javadoc-json, /abs/json, relative/json"
bundle:
  dir: "./bundle"
  database_path: "./data/bundle.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "build", "javadoc-json"),
		"/abs/json",
		"relative/json",
	}, cfg.Javadoc.SearchPath())
	assert.Equal(t, filepath.Join(dir, "bundle"), cfg.Bundle.Dir)
	assert.Equal(t, filepath.Join(dir, "data", "bundle.db"), cfg.Bundle.DatabasePath)
}

func TestLoad_errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, path := writeConfig(t, "javadoc: [unterminated\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, 512, cfg.Cache.Size)
	assert.Equal(t, 400*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.Javadoc.SearchPath(), "no search path by default")

	cfg = &Config{Cache: CacheConfig{Size: -1}}
	ApplyDefaults(cfg)
	assert.Equal(t, -1, cfg.Cache.Size, "negative size disables caching and is kept")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvJSONDirs: "/from/env"}
	cfg := &Config{Javadoc: JavadocConfig{JSONDirs: "/from/file"}}
	ApplyEnv(cfg, func(k string) string { return env[k] })
	assert.Equal(t, []string{"/from/env"}, cfg.Javadoc.SearchPath())

	cfg = &Config{Javadoc: JavadocConfig{JSONDirs: "/from/file"}}
	ApplyEnv(cfg, func(string) string { return "  " })
	assert.Equal(t, []string{"/from/file"}, cfg.Javadoc.SearchPath())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Javadoc.JSONDirs = "/a,/b"
	cfg.Watch.Debounce = time.Second
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, loaded.Javadoc.SearchPath())
	assert.Equal(t, time.Second, loaded.Watch.Debounce)
	assert.Equal(t, 512, loaded.Cache.Size)
}
