// Shared helpers for lockbox CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/lockbox/internal/auth"
	internalsqlite "github.com/mesh-intelligence/lockbox/internal/sqlite"
	"github.com/mesh-intelligence/lockbox/pkg/lockbox"
	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// attachService resolves the data directory, attaches the SQLite store,
// and wraps it in a lockbox Service. The caller must defer detach().
func attachService() (svc *lockbox.Service, detach func(), err error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := internalsqlite.NewBackend()
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}
	if err := store.Attach(cfg); err != nil {
		return nil, nil, fmt.Errorf("attach store: %w", err)
	}

	return lockbox.New(store), func() { _ = store.Detach() }, nil
}

// resolveCaller determines the acting principal: a verified --token wins,
// then the --as flag, then the identity key in config.yaml.
func resolveCaller() (types.Principal, error) {
	if flagToken != "" {
		if configSecret == "" {
			return "", fmt.Errorf("auth_secret not configured: %w", types.ErrUnauthorized)
		}
		a, err := auth.NewAuthenticator(configSecret)
		if err != nil {
			return "", err
		}
		return a.Verify(flagToken)
	}
	if flagAs != "" {
		return types.Principal(flagAs), nil
	}
	if configIdentity != "" {
		return types.Principal(configIdentity), nil
	}
	return "", fmt.Errorf("no identity: set --as, --token, or identity in config.yaml")
}

// userErrors are failures the caller can correct; everything else is a
// system error.
var userErrors = []error{
	types.ErrNotInitialized,
	types.ErrAlreadyInitialized,
	types.ErrUnauthorized,
	types.ErrEnvelopeNotFound,
	types.ErrDuplicateEnvelopeID,
	types.ErrZeroAmount,
	types.ErrInvalidVestingSchedule,
	types.ErrInvalidTimestampOrdering,
	types.ErrIncorrectSecret,
	types.ErrInvalidState,
	types.ErrZeroClaimable,
	types.ErrRevokeAfterClaim,
	types.ErrNotExpired,
	types.ErrInvalidGuardianConfig,
	types.ErrRecoveryDisabled,
	types.ErrNoActiveProposal,
	types.ErrDuplicateVote,
	types.ErrInsufficientGuardianVotes,
	types.ErrRecoveryDelayNotElapsed,
	types.ErrInvalidID,
	types.ErrInvalidCommitment,
}

// exitCode maps an error to the CLI exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, ue := range userErrors {
		if errors.Is(err, ue) {
			return exitUserError
		}
	}
	return exitSysError
}

// printResult renders v as JSON when --json is set, otherwise via the
// plain formatter.
func printResult(v any, plain func()) error {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	plain()
	return nil
}

// parseOptionalTS parses an optional unix-seconds flag value; 0 or unset
// means absent.
func parseOptionalTS(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

// parseVestSlices parses repeated "ts:bp" flag values into a schedule.
func parseVestSlices(specs []string) ([]types.VestSlice, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]types.VestSlice, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid vesting slice %q (want ts:bp)", spec)
		}
		ts, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vesting timestamp %q: %w", parts[0], err)
		}
		bp, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid basis points %q: %w", parts[1], err)
		}
		out = append(out, types.VestSlice{TS: ts, BasisPoints: uint32(bp)})
	}
	return out, nil
}

// formatEnvelope renders an envelope for plain output.
func formatEnvelope(e *types.Envelope) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id:          %s\n", e.ID)
	fmt.Fprintf(&b, "owner:       %s\n", e.Owner)
	fmt.Fprintf(&b, "beneficiary: %s\n", e.Beneficiary)
	fmt.Fprintf(&b, "amount:      %d (claimed %d)\n", e.TotalAmount, e.ClaimedAmount)
	fmt.Fprintf(&b, "status:      %s\n", e.Status)
	if e.UnlockTS != nil {
		fmt.Fprintf(&b, "unlock:      %d\n", *e.UnlockTS)
	}
	if e.ExpiryTS != nil {
		fmt.Fprintf(&b, "expiry:      %d\n", *e.ExpiryTS)
	}
	for _, s := range e.Vesting {
		fmt.Fprintf(&b, "vest:        %d -> %d bp\n", s.TS, s.BasisPoints)
	}
	return b.String()
}
