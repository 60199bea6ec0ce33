// Create command: locks an amount for a beneficiary behind a secret
// commitment.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lockbox/pkg/lockbox"
	"github.com/mesh-intelligence/lockbox/pkg/types"
)

var (
	createID          string
	createBeneficiary string
	createAmount      int64
	createSecret      string
	createCommitment  string
	createUnlock      int64
	createVest        []string
	createExpiry      int64
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an envelope locking an amount for a beneficiary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createBeneficiary == "" {
			fmt.Fprintln(os.Stderr, "create: --beneficiary is required")
			os.Exit(exitUserError)
		}
		if (createSecret == "") == (createCommitment == "") {
			fmt.Fprintln(os.Stderr, "create: exactly one of --secret or --commitment is required")
			os.Exit(exitUserError)
		}

		caller, err := resolveCaller()
		if err != nil {
			return err
		}

		commitment := createCommitment
		if createSecret != "" {
			commitment = lockbox.HashSecret([]byte(createSecret))
		}

		id := createID
		if id == "" {
			generated, err := uuid.NewV7()
			if err != nil {
				id = uuid.New().String()
			} else {
				id = generated.String()
			}
		}

		vest, err := parseVestSlices(createVest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create: %v\n", err)
			os.Exit(exitUserError)
		}

		svc, detach, err := attachService()
		if err != nil {
			return err
		}
		defer detach()

		err = svc.CreateEnvelope(caller, lockbox.CreateParams{
			ID:               id,
			Beneficiary:      types.Principal(createBeneficiary),
			Amount:           createAmount,
			SecretCommitment: commitment,
			UnlockTS:         parseOptionalTS(createUnlock),
			Vesting:          vest,
			ExpiryTS:         parseOptionalTS(createExpiry),
		})
		if err != nil {
			return err
		}

		return printResult(map[string]string{"id": id}, func() {
			fmt.Printf("created envelope %s\n", id)
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createID, "id", "", "envelope id (default: generated UUID v7)")
	createCmd.Flags().StringVar(&createBeneficiary, "beneficiary", "", "beneficiary principal (required)")
	createCmd.Flags().Int64Var(&createAmount, "amount", 0, "amount to lock (required, > 0)")
	createCmd.Flags().StringVar(&createSecret, "secret", "", "secret preimage (commitment derived via SHA-256)")
	createCmd.Flags().StringVar(&createCommitment, "commitment", "", "hex SHA-256 commitment of the secret")
	createCmd.Flags().Int64Var(&createUnlock, "unlock", 0, "unlock timestamp, unix seconds (0 = none)")
	createCmd.Flags().StringArrayVar(&createVest, "vest", nil, "vesting slice ts:bp (repeatable, increasing ts)")
	createCmd.Flags().Int64Var(&createExpiry, "expiry", 0, "expiry timestamp, unix seconds (0 = none)")
}
