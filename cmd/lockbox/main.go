// Package main provides the lockbox CLI: envelopes locking value behind a
// secret commitment, with vesting, expiry refunds, and guardian-quorum
// ownership recovery.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
