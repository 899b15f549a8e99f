package cli

import (
	"github.com/spf13/cobra"
)

func newFieldCommand(opts *globalOptions) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "field <type> <field>",
		Short: "Print the comment (or a tag) of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, Lookup{Type: args[0], Field: args[1], Tag: tag})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "print this tag (e.g. deprecated) instead of the comment")
	return cmd
}

func newMethodCommand(opts *globalOptions) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "method <type> <method>",
		Short: "Print the comment (or a tag) of a method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, Lookup{Type: args[0], Method: args[1], Tag: tag})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "print this tag (e.g. title) instead of the comment")
	return cmd
}

func newParamCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "param <type> <method> <param>",
		Short: "Print the comment of a method parameter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, Lookup{Type: args[0], Method: args[1], Param: args[2]})
		},
	}
}

func newTypeCommand(opts *globalOptions) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "type <type>",
		Short: "Print the comment (or a tag) of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, Lookup{Type: args[0], Tag: tag})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "print this tag instead of the comment")
	return cmd
}

// runLookup resolves a single lookup. Undocumented members print an empty
// result; only unreadable or malformed documents fail the command.
func runLookup(cmd *cobra.Command, opts *globalOptions, l Lookup) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := Resolve(cmd.Context(), a.resolver, l)
	if err != nil {
		return err
	}
	return WriteResult(cmd.OutOrStdout(), &Result{Lookup: l, Text: text}, a.format)
}
