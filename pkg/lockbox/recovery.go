package lockbox

import (
	"fmt"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// ProposeRecovery opens a fresh ownership-recovery proposal with the
// proposer's vote recorded, discarding any unexecuted prior proposal. Only
// guardians may propose, and only while recovery is enabled.
func (s *Service) ProposeRecovery(caller, newOwner types.Principal) error {
	if _, err := s.requireGuardian(caller); err != nil {
		return err
	}
	if newOwner == "" {
		return fmt.Errorf("new owner must not be empty: %w", types.ErrInvalidGuardianConfig)
	}
	now := s.now()
	return s.store.PutProposal(types.NewRecoveryProposal(newOwner, caller, now))
}

// VoteRecovery adds the caller's vote to the live proposal. Votes are
// keyed by guardian identity; a second vote from the same guardian fails
// with types.ErrDuplicateVote and counts nothing.
func (s *Service) VoteRecovery(caller types.Principal) error {
	if _, err := s.requireGuardian(caller); err != nil {
		return err
	}
	p, err := s.store.GetProposal()
	if err != nil {
		return err
	}
	if err := p.AddVote(caller); err != nil {
		return err
	}
	return s.store.PutProposal(p)
}

// ExecuteRecovery finalizes the live proposal: once the vote count has
// reached the threshold and the recovery delay has elapsed since the
// proposal was created, the registered owner becomes the proposed owner
// and the proposal is cleared. Execution happens exactly once; a repeated
// call fails with types.ErrNoActiveProposal. Any principal may trigger
// execution, since quorum and delay alone gate it.
func (s *Service) ExecuteRecovery(caller types.Principal) error {
	reg, err := s.store.GetRegistry()
	if err != nil {
		return err
	}
	if !reg.RecoveryEnabled() {
		return types.ErrRecoveryDisabled
	}
	p, err := s.store.GetProposal()
	if err != nil {
		return err
	}
	now := s.now()

	if p.VoteCount() < reg.RecoveryThreshold {
		return fmt.Errorf("%d of %d votes: %w", p.VoteCount(), reg.RecoveryThreshold, types.ErrInsufficientGuardianVotes)
	}
	if now < p.CreatedAt+reg.RecoveryDelay {
		return fmt.Errorf("executable at %d: %w", p.CreatedAt+reg.RecoveryDelay, types.ErrRecoveryDelayNotElapsed)
	}

	if err := s.store.SetOwner(p.NewOwner); err != nil {
		return err
	}
	return s.store.ClearProposal()
}

// RecoveryProposal returns a copy of the live proposal.
// Returns types.ErrNoActiveProposal when none exists.
func (s *Service) RecoveryProposal() (*types.RecoveryProposal, error) {
	if _, err := s.store.GetRegistry(); err != nil {
		return nil, err
	}
	return s.store.GetProposal()
}
