package lockbox

import (
	"fmt"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// CreateParams carries the owner-supplied parameters for a new envelope.
// UnlockTS and ExpiryTS are optional; nil means unset.
type CreateParams struct {
	ID               string
	Beneficiary      types.Principal
	Amount           int64
	SecretCommitment string
	UnlockTS         *int64
	Vesting          []types.VestSlice
	ExpiryTS         *int64
}

// CreateEnvelope validates params and stores a new active envelope with
// nothing claimed. Only the registered owner may create envelopes.
func (s *Service) CreateEnvelope(caller types.Principal, params CreateParams) error {
	reg, err := s.requireOwner(caller)
	if err != nil {
		return err
	}
	now := s.now()

	e := &types.Envelope{
		ID:               params.ID,
		Owner:            reg.Owner,
		Beneficiary:      params.Beneficiary,
		TotalAmount:      params.Amount,
		ClaimedAmount:    0,
		SecretCommitment: params.SecretCommitment,
		UnlockTS:         params.UnlockTS,
		Vesting:          params.Vesting,
		ExpiryTS:         params.ExpiryTS,
		Status:           types.StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.Validate(); err != nil {
		return err
	}
	return s.store.PutEnvelope(e)
}

// RevokeEnvelope cancels an untouched envelope and returns the full amount
// to the owner. Revocation is only permitted before any value has left the
// envelope; afterwards the owner must wait for expiry and refund instead.
func (s *Service) RevokeEnvelope(caller types.Principal, id string) error {
	reg, err := s.requireOwner(caller)
	if err != nil {
		return err
	}
	now := s.now()

	e, err := s.store.GetEnvelope(id)
	if err != nil {
		return err
	}
	if e.Status != types.StatusActive {
		return fmt.Errorf("envelope %s is %s: %w", id, e.Status, types.ErrInvalidState)
	}
	if e.ClaimedAmount > 0 {
		return fmt.Errorf("envelope %s has %d claimed: %w", id, e.ClaimedAmount, types.ErrRevokeAfterClaim)
	}

	if err := e.SetStatus(types.StatusRevoked, now); err != nil {
		return err
	}
	if err := s.store.UpdateEnvelope(e); err != nil {
		return err
	}
	return s.transfer.Transfer(&types.Transfer{
		EnvelopeID: e.ID,
		To:         reg.Owner,
		Amount:     e.TotalAmount,
		Reason:     types.TransferReasonRevoke,
		IssuedAt:   now,
	})
}

// RefundOwner reclaims the unclaimed remainder of an expired envelope for
// the owner and returns it. Envelopes without an expiry can never be
// refunded.
func (s *Service) RefundOwner(caller types.Principal, id string) (int64, error) {
	reg, err := s.requireOwner(caller)
	if err != nil {
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
	if e.ExpiryTS == nil {
		return 0, fmt.Errorf("envelope %s has no expiry: %w", id, types.ErrNotExpired)
	}
	if now < *e.ExpiryTS {
		return 0, fmt.Errorf("envelope %s expires at %d: %w", id, *e.ExpiryTS, types.ErrNotExpired)
	}

	remaining := e.Remaining()
	if err := e.SetStatus(types.StatusRefunded, now); err != nil {
		return 0, err
	}
	if err := s.store.UpdateEnvelope(e); err != nil {
		return 0, err
	}
	if remaining > 0 {
		err := s.transfer.Transfer(&types.Transfer{
			EnvelopeID: e.ID,
			To:         reg.Owner,
			Amount:     remaining,
			Reason:     types.TransferReasonRefund,
			IssuedAt:   now,
		})
		if err != nil {
			return 0, err
		}
	}
	return remaining, nil
}

// GetEnvelope returns a read-only copy of the full record, terminal or
// not. Reads are unauthenticated; the record is the audit trail.
func (s *Service) GetEnvelope(id string) (*types.Envelope, error) {
	return s.store.GetEnvelope(id)
}

// ListEnvelopes returns every envelope in the store.
func (s *Service) ListEnvelopes() ([]*types.Envelope, error) {
	return s.store.ListEnvelopes()
}

// ListTransfers returns the transfer journal in issue order.
func (s *Service) ListTransfers() ([]*types.Transfer, error) {
	return s.store.ListTransfers()
}
