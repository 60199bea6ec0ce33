package types

// Registry is the singleton ownership record: the principal allowed to
// create, revoke, and refund envelopes, plus the guardian set that can
// recover ownership. A zero RecoveryThreshold or an empty guardian set
// permanently disables recovery.
type Registry struct {
	Owner             Principal   `json:"owner"`
	Guardians         []Principal `json:"guardians"`
	RecoveryThreshold int         `json:"recovery_threshold"`
	RecoveryDelay     int64       `json:"recovery_delay"`
}

// Validate checks that the threshold does not exceed the guardian set size
// and that no guardian appears twice.
func (r *Registry) Validate() error {
	if r.Owner == "" {
		return ErrInvalidGuardianConfig
	}
	if r.RecoveryThreshold < 0 || r.RecoveryThreshold > len(r.Guardians) {
		return ErrInvalidGuardianConfig
	}
	if r.RecoveryDelay < 0 {
		return ErrInvalidGuardianConfig
	}
	seen := make(map[Principal]bool, len(r.Guardians))
	for _, g := range r.Guardians {
		if g == "" || seen[g] {
			return ErrInvalidGuardianConfig
		}
		seen[g] = true
	}
	return nil
}

// IsGuardian reports whether p belongs to the guardian set.
func (r *Registry) IsGuardian(p Principal) bool {
	for _, g := range r.Guardians {
		if g == p {
			return true
		}
	}
	return false
}

// RecoveryEnabled reports whether the guardian quorum can ever be met.
func (r *Registry) RecoveryEnabled() bool {
	return r.RecoveryThreshold > 0 && len(r.Guardians) > 0
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := *r
	if r.Guardians != nil {
		c.Guardians = make([]Principal, len(r.Guardians))
		copy(c.Guardians, r.Guardians)
	}
	return &c
}

// RecoveryProposal is the single live ownership-recovery proposal. Votes is
// an identity-keyed set, so a guardian can never be counted twice toward
// the quorum.
type RecoveryProposal struct {
	NewOwner  Principal          `json:"new_owner"`
	Votes     map[Principal]bool `json:"votes"`
	CreatedAt int64              `json:"created_at"`
	Executed  bool               `json:"executed"`
}

// NewRecoveryProposal creates a proposal with the proposer's vote recorded.
func NewRecoveryProposal(newOwner, proposer Principal, now int64) *RecoveryProposal {
	return &RecoveryProposal{
		NewOwner:  newOwner,
		Votes:     map[Principal]bool{proposer: true},
		CreatedAt: now,
	}
}

// HasVoted reports whether the guardian already voted on this proposal.
func (p *RecoveryProposal) HasVoted(g Principal) bool {
	return p.Votes[g]
}

// AddVote records a guardian's vote. Returns ErrDuplicateVote if the
// guardian already voted.
func (p *RecoveryProposal) AddVote(g Principal) error {
	if p.Votes[g] {
		return ErrDuplicateVote
	}
	if p.Votes == nil {
		p.Votes = make(map[Principal]bool)
	}
	p.Votes[g] = true
	return nil
}

// VoteCount returns the number of distinct guardian votes.
func (p *RecoveryProposal) VoteCount() int {
	return len(p.Votes)
}

// Clone returns a deep copy of the proposal.
func (p *RecoveryProposal) Clone() *RecoveryProposal {
	c := *p
	c.Votes = make(map[Principal]bool, len(p.Votes))
	for k, v := range p.Votes {
		c.Votes[k] = v
	}
	return &c
}
