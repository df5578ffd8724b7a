package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

func distCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dist",
		Short: "Run the whole pipeline: bundle, disk image, and optional signing",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, msg, err := load()
			if err != nil {
				return err
			}
			run := macpack.NewRunner(dryRun)
			if err := runSteps(cmd, macpack.DistSteps(desc, run, msg)...); err != nil {
				return err
			}
			fmt.Println(msg.Get("done_dist"))
			return nil
		},
	}
}
