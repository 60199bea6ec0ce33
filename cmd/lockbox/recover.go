// Recover commands: guardian-quorum ownership recovery.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

var recoverNewOwner string

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Guardian-quorum ownership recovery",
}

var recoverProposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a new owner (guardian only; replaces any live proposal)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recoverNewOwner == "" {
			fmt.Fprintln(os.Stderr, "propose: --new-owner is required")
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

		if err := svc.ProposeRecovery(caller, types.Principal(recoverNewOwner)); err != nil {
			return err
		}
		fmt.Printf("proposed new owner %s (1 vote recorded)\n", recoverNewOwner)
		return nil
	},
}

var recoverVoteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Vote for the live recovery proposal (guardian only)",
	Args:  cobra.NoArgs,
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

		if err := svc.VoteRecovery(caller); err != nil {
			return err
		}
		fmt.Println("vote recorded")
		return nil
	},
}

var recoverExecuteCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute the live proposal once quorum and delay are satisfied",
	Args:  cobra.NoArgs,
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

		if err := svc.ExecuteRecovery(caller); err != nil {
			return err
		}
		fmt.Println("ownership recovered")
		return nil
	},
}

var recoverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live recovery proposal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		p, err := svc.RecoveryProposal()
		if err != nil {
			return err
		}

		return printResult(p, func() {
			fmt.Printf("new owner: %s\nvotes:     %d\ncreated:   %d\n",
				p.NewOwner, p.VoteCount(), p.CreatedAt)
		})
	},
}

func init() {
	recoverProposeCmd.Flags().StringVar(&recoverNewOwner, "new-owner", "", "proposed owner principal (required)")

	recoverCmd.AddCommand(recoverProposeCmd)
	recoverCmd.AddCommand(recoverVoteCmd)
	recoverCmd.AddCommand(recoverExecuteCmd)
	recoverCmd.AddCommand(recoverStatusCmd)
}
