package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Group makes cmd a pure container of subcommands: running it bare or with
// an unknown subcommand prints usage and fails.
func Group(cmd *cobra.Command, subcommands ...*cobra.Command) *cobra.Command {
	cmd.AddCommand(subcommands...)
	cmd.Args = func(c *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q", args[0], c.CommandPath())
		}
		return nil
	}
	cmd.RunE = func(c *cobra.Command, _ []string) error {
		_ = c.Usage()
		return fmt.Errorf("%q requires a subcommand", c.CommandPath())
	}
	cmd.Annotations = map[string]string{AnnotationNoContainer: "true"}
	return cmd
}
