// Root command for the lockbox CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/pkg/lockbox"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagAs        string
	flagToken     string
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir  string
	configIdentity string
	configSecret   string
)

var rootCmd = &cobra.Command{
	Use:     "lockbox",
	Short:   "Lockbox locks value for a beneficiary behind a secret commitment",
	Version: lockbox.Version,
	Long: `Lockbox manages envelopes: amounts locked for a named beneficiary,
releasable against a secret preimage, subject to optional time-locks,
vesting schedules, and expiry refunds. A guardian quorum can recover
ownership after a mandatory delay.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configIdentity = cfg.GetString(cfgKeyIdentity)
		configSecret = cfg.GetString(cfgKeyAuthSecret)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.lockbox-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagAs, "as", "", "act as this principal (trusted local mode)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "identity token minted by 'lockbox token'")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(refundCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(transfersCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(tokenCmd)
}
