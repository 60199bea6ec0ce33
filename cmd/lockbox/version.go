// Version command for the lockbox CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/pkg/lockbox"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lockbox version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lockbox", lockbox.Version)
	},
}
