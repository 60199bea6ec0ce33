// Init command: stores the owner registry and guardian configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

var (
	initOwner     string
	initGuardians []string
	initThreshold int
	initDelay     int64
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the lockbox with an owner and guardian set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initOwner == "" {
			fmt.Fprintln(os.Stderr, "init: --owner is required")
			os.Exit(exitUserError)
		}

		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		guardians := make([]types.Principal, 0, len(initGuardians))
		for _, g := range initGuardians {
			guardians = append(guardians, types.Principal(g))
		}
		if err := svc.Initialize(types.Principal(initOwner), guardians, initThreshold, initDelay); err != nil {
			return err
		}
		fmt.Printf("initialized: owner=%s guardians=%d threshold=%d delay=%ds\n",
			initOwner, len(guardians), initThreshold, initDelay)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOwner, "owner", "", "registered owner principal (required)")
	initCmd.Flags().StringArrayVar(&initGuardians, "guardian", nil, "guardian principal (repeatable)")
	initCmd.Flags().IntVar(&initThreshold, "threshold", 0, "recovery vote threshold (0 disables recovery)")
	initCmd.Flags().Int64Var(&initDelay, "delay", 0, "recovery delay in seconds")
}
