package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc"
)

func newVersionCmd() *cobra.Command {
	var build bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the mathdoc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := mathdoc.VersionTag()
			if build {
				out = mathdoc.ReadBuildInfo().String()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&build, "build", false, "Include VCS revision and Go version")
	return cmd
}
