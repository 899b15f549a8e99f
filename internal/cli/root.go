// Package cli provides the docreader command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DefaultConfigFile is read from the working directory when --config is not
// given and the file exists.
const DefaultConfigFile = "docreader.yaml"

type globalOptions struct {
	configPath string
	debug      bool
	dirs       string
	bundleDir  string
	bundleDB   string
	output     string
	getenv     func(string) string
}

// NewRootCommand builds the docreader command tree. getenv supplies
// environment overrides; nil uses os.Getenv.
func NewRootCommand(version string, getenv func(string) string) *cobra.Command {
	opts := &globalOptions{getenv: getenv}

	rootCmd := &cobra.Command{
		Use:           "docreader",
		Short:         "Resolve extracted javadoc comments for types, fields, methods and parameters",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default: ./"+DefaultConfigFile+" when present)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging (search-path misses, cache and watcher events)")
	flags.StringVar(&opts.dirs, "dirs", "", "comma-separated javadoc JSON directories, searched in order (overrides config)")
	flags.StringVar(&opts.bundleDir, "bundle-dir", "", "directory used as bundled fallback (overrides config)")
	flags.StringVar(&opts.bundleDB, "bundle-db", "", "bundle database used as fallback (overrides config)")
	flags.StringVar(&opts.output, "output", "text", "output format: text or json")

	rootCmd.AddCommand(
		newFieldCommand(opts),
		newMethodCommand(opts),
		newParamCommand(opts),
		newTypeCommand(opts),
		newBatchCommand(opts),
		newPackCommand(opts),
		newStatusCommand(opts),
		newConfigCommand(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the docreader version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "docreader %s\n", version)
			},
		},
	)
	return rootCmd
}

// Execute creates and runs the root command.
func Execute(version string) error {
	return NewRootCommand(version, nil).Execute()
}
