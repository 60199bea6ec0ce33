// Token command: mints an identity token for a principal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/internal/auth"
	"github.com/mesh-intelligence/lockbox/pkg/types"
)

var (
	tokenPrincipal string
	tokenTTL       time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an identity token signed with the configured auth secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenPrincipal == "" {
			fmt.Fprintln(os.Stderr, "token: --principal is required")
			os.Exit(exitUserError)
		}
		if configSecret == "" {
			fmt.Fprintln(os.Stderr, "token: auth_secret is not set in config.yaml")
			os.Exit(exitUserError)
		}

		a, err := auth.NewAuthenticator(configSecret)
		if err != nil {
			return err
		}
		signed, err := a.Mint(types.Principal(tokenPrincipal), tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenPrincipal, "principal", "", "principal the token identifies (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
