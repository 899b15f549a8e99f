package config

import "time"

const (
	// DefaultCacheSize is the number of parsed documents kept per resolver.
	DefaultCacheSize = 512
	// DefaultDebounce coalesces bursts of file events into one invalidation.
	DefaultDebounce = 400 * time.Millisecond
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
