package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/docreader/internal/indexer"
	"github.com/hyperjump/docreader/internal/storage"
	"github.com/hyperjump/docreader/pkg/utils"
)

func newPackCommand(opts *globalOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "pack <dir>...",
		Short: "Pack javadoc JSON directories into a bundle database",
		Long: `Validates every .json document below each directory and stores it in a
SQLite bundle under its path relative to that directory. Later directories
overwrite documents of the same name. Documents previously packed from a
directory whose source file has since been deleted are removed. The bundle can then serve as the
fallback (--bundle-db) when no search-path directory has a document.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Bundle.DatabasePath
			}
			if dbPath == "" {
				return errors.New("no bundle database: pass --db or set bundle.database_path")
			}
			logger, err := utils.NewLogger(cfg.Debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			idx := indexer.NewIndexer(store, indexer.WithLogger(logger))
			out := cmd.OutOrStdout()
			for _, dir := range args {
				n, err := idx.IndexDirectory(cmd.Context(), dir)
				if err != nil {
					return fmt.Errorf("packing %s: %w", dir, err)
				}
				removed, err := idx.PruneDirectory(cmd.Context(), dir)
				if err != nil {
					return fmt.Errorf("pruning %s: %w", dir, err)
				}
				fmt.Fprintf(out, "Packed %d document(s) from %s\n", n, dir)
				if removed > 0 {
					fmt.Fprintf(out, "Removed %d document(s) no longer in %s\n", removed, dir)
				}
			}
			info, err := store.BundleInfo(cmd.Context())
			if err != nil {
				return err
			}
			total, err := store.CountDocuments(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Bundle %s at %s holds %d document(s)\n", info.ID, dbPath, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "bundle database to write (default: bundle.database_path)")
	return cmd
}
