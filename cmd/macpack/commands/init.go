package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented default build descriptor to the project directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := descriptorPath
			if path == "" {
				path = macpack.DescriptorFilename
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, not overwriting", path)
			}
			scaffold := macpack.MustGetResource(macpack.DescriptorFilename)
			if err := os.WriteFile(path, []byte(scaffold), 0644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s. Adjust it to your project, then run 'macpack dist'.\n", path)
			return nil
		},
	}
}
