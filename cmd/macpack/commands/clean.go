package commands

import (
	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory and all produced artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, _, err := load()
			if err != nil {
				return err
			}
			return macpack.CleanArtifacts(desc)
		},
	}
}
