package main

import (
	"os"

	"github.com/bcx-comics/macpack/cmd/macpack/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
