package lockbox

import (
	"fmt"

	"github.com/mesh-intelligence/lockbox/pkg/types"
	"github.com/mesh-intelligence/lockbox/pkg/vesting"
)

// Claim releases the currently claimable portion of an envelope to its
// beneficiary and returns the released amount.
//
// Check order: lookup, status, caller identity, secret, claimable amount.
// The secret check happens before any time or vesting math and never
// mutates state on failure. A zero claimable amount covers both "not yet
// unlocked" and "already fully claimed".
func (s *Service) Claim(caller types.Principal, id string, preimage []byte) (int64, error) {
	if _, err := s.store.GetRegistry(); err != nil {
		return 0, err
	}
	now := s.now()

	e, err := s.store.GetEnvelope(id)
	if err != nil {
		return 0, err
	}
	if e.Status != types.StatusActive {
		return 0, fmt.Errorf("envelope %s is %s: %w", id, e.Status, types.ErrInvalidState)
	}
	if caller != e.Beneficiary {
		return 0, fmt.Errorf("caller %q is not the beneficiary: %w", caller, types.ErrUnauthorized)
	}
	if err := verifySecret(e.SecretCommitment, preimage); err != nil {
		return 0, err
	}

	released, err := vesting.Claimable(e.TotalAmount, e.ClaimedAmount, e.Vesting, e.UnlockTS, now)
	if err != nil {
		return 0, err
	}
	if released == 0 {
		return 0, types.ErrZeroClaimable
	}

	claimed, err := vesting.AddChecked(e.ClaimedAmount, released)
	if err != nil {
		return 0, err
	}
	if claimed > e.TotalAmount {
		// Claimable already caps at the remainder; exceeding the total
		// here means the stored record is corrupt.
		return 0, types.ErrArithmeticOverflow
	}
	e.ClaimedAmount = claimed
	e.UpdatedAt = now

	if err := s.store.UpdateEnvelope(e); err != nil {
		return 0, err
	}
	err = s.transfer.Transfer(&types.Transfer{
		EnvelopeID: e.ID,
		To:         e.Beneficiary,
		Amount:     released,
		Reason:     types.TransferReasonClaim,
		IssuedAt:   now,
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
