package commands

import (
	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

func bundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle",
		Short: "Build the application bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, msg, err := load()
			if err != nil {
				return err
			}
			run := macpack.NewRunner(dryRun)
			return runSteps(cmd, macpack.NewBundleStep(desc, run, msg))
		},
	}
}
