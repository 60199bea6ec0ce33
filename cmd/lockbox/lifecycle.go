// Revoke, refund, get, list, and transfers commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <envelope-id>",
	Short: "Revoke an untouched envelope and return the amount to the owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := resolveCaller()
		if err != nil {
			return err
		}

		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		if err := svc.RevokeEnvelope(caller, args[0]); err != nil {
			return err
		}
		fmt.Printf("revoked envelope %s\n", args[0])
		return nil
	},
}

var refundCmd = &cobra.Command{
	Use:   "refund <envelope-id>",
	Short: "Reclaim the unclaimed remainder of an expired envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := resolveCaller()
		if err != nil {
			return err
		}

		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		remaining, err := svc.RefundOwner(caller, args[0])
		if err != nil {
			return err
		}

		return printResult(map[string]int64{"remaining": remaining}, func() {
			fmt.Printf("refunded %d\n", remaining)
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <envelope-id>",
	Short: "Show an envelope record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		e, err := svc.GetEnvelope(args[0])
		if err != nil {
			return err
		}

		return printResult(e, func() {
			fmt.Print(formatEnvelope(e))
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every envelope, terminal ones included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		envelopes, err := svc.ListEnvelopes()
		if err != nil {
			return err
		}

		return printResult(envelopes, func() {
			for _, e := range envelopes {
				fmt.Printf("%s  %s  %d/%d  -> %s\n",
					e.ID, e.Status, e.ClaimedAmount, e.TotalAmount, e.Beneficiary)
			}
		})
	},
}

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Show the transfer instruction journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		transfers, err := svc.ListTransfers()
		if err != nil {
			return err
		}

		return printResult(transfers, func() {
			for _, t := range transfers {
				fmt.Printf("%s  %s  %d -> %s  (%s)\n",
					t.ID, t.EnvelopeID, t.Amount, t.To, t.Reason)
			}
		})
	},
}
