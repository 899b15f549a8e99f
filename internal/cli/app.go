package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/docreader/internal/config"
	"github.com/hyperjump/docreader/internal/javadoc"
	"github.com/hyperjump/docreader/internal/storage"
	"github.com/hyperjump/docreader/pkg/utils"
)

// app holds the components a command runs against.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	resolver *javadoc.Resolver
	bundle   storage.Storage // nil unless a bundle database is configured
	format   OutputFormat
}

// loadConfig loads the explicit config path, falls back to DefaultConfigFile in
// the working directory, and otherwise uses defaults. Environment and flag
// overrides are applied on top, in that order.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case o.configPath != "":
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			loaded, err := config.Load(DefaultConfigFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}
	}

	getenv := o.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	config.ApplyEnv(cfg, getenv)

	flags := cmd.Flags()
	if flags.Changed("dirs") {
		cfg.Javadoc.JSONDirs = o.dirs
	}
	if flags.Changed("bundle-dir") {
		cfg.Bundle.Dir = o.bundleDir
	}
	if flags.Changed("bundle-db") {
		cfg.Bundle.DatabasePath = o.bundleDB
	}
	if o.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newApp builds the resolver for a command. Callers must Close the result.
func newApp(cmd *cobra.Command, o *globalOptions) (*app, error) {
	format, err := ParseOutputFormat(o.output)
	if err != nil {
		return nil, err
	}
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, format: format}

	fallback, err := a.openFallback()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.resolver = javadoc.New(javadoc.Config{
		SearchPath: cfg.Javadoc.SearchPath(),
		Fallback:   fallback,
		CacheSize:  cfg.Cache.Size,
		Logger:     logger,
	})
	logger.Debug("resolver ready",
		zap.Strings("search_path", a.resolver.SearchPath()),
		zap.Bool("fallback", fallback != nil),
	)
	return a, nil
}

// openFallback opens the bundle database when one is configured and present,
// else the bundle directory. A configured database that does not exist is
// skipped with a warning rather than created empty.
func (a *app) openFallback() (javadoc.Source, error) {
	if path := a.cfg.Bundle.DatabasePath; path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			store, err := storage.NewSQLiteStorage(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open bundle: %w", err)
			}
			a.bundle = store
			return javadoc.StorageSource(store, path), nil
		case errors.Is(err, fs.ErrNotExist):
			a.logger.Warn("bundle database not found; continuing without it", zap.String("path", path))
		default:
			return nil, err
		}
	}
	if dir := a.cfg.Bundle.Dir; dir != "" {
		return javadoc.FSSource(os.DirFS(dir), dir), nil
	}
	return nil, nil
}

func (a *app) Close() {
	if a.bundle != nil {
		_ = a.bundle.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
