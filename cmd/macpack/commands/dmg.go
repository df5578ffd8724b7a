package commands

import (
	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

func dmgCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dmg",
		Short: "Wrap the built application bundle into a disk image",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, msg, err := load()
			if err != nil {
				return err
			}
			run := macpack.NewRunner(dryRun)
			return runSteps(cmd, macpack.NewDMGStep(desc, run, msg))
		},
	}
}
