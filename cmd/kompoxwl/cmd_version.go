package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdVersion returns a command that prints the application version.
func newCmdVersion() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if long {
				fmt.Fprintf(cmd.OutOrStdout(), "kompoxwl version %s\n", longVersion())
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kompoxwl version %s\n", version)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Include commit and build date")
	return cmd
}
