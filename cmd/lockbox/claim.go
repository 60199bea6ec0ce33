// Claim command: releases the claimable portion of an envelope to its
// beneficiary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var claimSecret string

var claimCmd = &cobra.Command{
	Use:   "claim <envelope-id>",
	Short: "Claim the currently releasable amount of an envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if claimSecret == "" {
			fmt.Fprintln(os.Stderr, "claim: --secret is required")
			os.Exit(exitUserError)
		}

		caller, err := resolveCaller()
		if err != nil {
			return err
		}

		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		released, err := svc.Claim(caller, args[0], []byte(claimSecret))
		if err != nil {
			return err
		}

		return printResult(map[string]int64{"released": released}, func() {
			fmt.Printf("released %d\n", released)
		})
	},
}

func init() {
	claimCmd.Flags().StringVar(&claimSecret, "secret", "", "secret preimage (required)")
}
