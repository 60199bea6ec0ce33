package types

import (
	"encoding/hex"
)

// Principal identifies an acting party: the registry owner, an envelope
// beneficiary, or a guardian.
type Principal string

// BasisPointsTotal is the denominator of a vesting schedule: 10000 basis
// points release the full amount.
const BasisPointsTotal = 10000

// CommitmentHexLen is the length of a hex-encoded SHA-256 commitment.
const CommitmentHexLen = 64

// Envelope statuses. A fully claimed envelope stays active; "fully claimed"
// is derived from ClaimedAmount == TotalAmount, not a status of its own.
const (
	StatusActive   = "active"
	StatusRevoked  = "revoked"
	StatusRefunded = "refunded"
)

// statusTransitions is the closed transition table. Revoked and refunded
// are terminal.
var statusTransitions = map[string]map[string]bool{
	StatusActive: {
		StatusRevoked:  true,
		StatusRefunded: true,
	},
	StatusRevoked:  {},
	StatusRefunded: {},
}

// VestSlice is one step of a vesting schedule: the cumulative fraction
// BasisPoints of the total amount unlocks at TS.
type VestSlice struct {
	TS          int64  `json:"ts"`
	BasisPoints uint32 `json:"bp"`
}

// Envelope locks TotalAmount for Beneficiary behind SecretCommitment.
// UnlockTS and ExpiryTS are optional; nil means unset.
type Envelope struct {
	ID               string      `json:"id"`
	Owner            Principal   `json:"owner"`
	Beneficiary      Principal   `json:"beneficiary"`
	TotalAmount      int64       `json:"total_amount"`
	ClaimedAmount    int64       `json:"claimed_amount"`
	SecretCommitment string      `json:"secret_commitment"`
	UnlockTS         *int64      `json:"unlock_ts,omitempty"`
	Vesting          []VestSlice `json:"vesting,omitempty"`
	ExpiryTS         *int64      `json:"expiry_ts,omitempty"`
	Status           string      `json:"status"`
	CreatedAt        int64       `json:"created_at"`
	UpdatedAt        int64       `json:"updated_at"`
}

// SetStatus applies a status transition. Returns ErrInvalidTransition if
// the transition is outside the table; a disallowed transition is a caller
// bug, never a silent no-op.
func (e *Envelope) SetStatus(status string, now int64) error {
	allowed, ok := statusTransitions[e.Status]
	if !ok || !allowed[status] {
		return ErrInvalidTransition
	}
	e.Status = status
	e.UpdatedAt = now
	return nil
}

// Remaining returns the unclaimed portion of the envelope.
func (e *Envelope) Remaining() int64 {
	return e.TotalAmount - e.ClaimedAmount
}

// FullyClaimed reports whether every unit has been released.
func (e *Envelope) FullyClaimed() bool {
	return e.ClaimedAmount == e.TotalAmount
}

// Clone returns a deep copy so store callers never share slices with the
// stored record.
func (e *Envelope) Clone() *Envelope {
	c := *e
	if e.UnlockTS != nil {
		ts := *e.UnlockTS
		c.UnlockTS = &ts
	}
	if e.ExpiryTS != nil {
		ts := *e.ExpiryTS
		c.ExpiryTS = &ts
	}
	if e.Vesting != nil {
		c.Vesting = make([]VestSlice, len(e.Vesting))
		copy(c.Vesting, e.Vesting)
	}
	return &c
}

// Validate checks creation-time invariants: positive amount, well-formed
// commitment, strictly increasing vesting timestamps with basis points
// summing to at most BasisPointsTotal, and expiry not preceding the unlock
// time or any vesting timestamp.
func (e *Envelope) Validate() error {
	if e.ID == "" {
		return ErrInvalidID
	}
	if e.TotalAmount <= 0 {
		return ErrZeroAmount
	}
	if err := ValidateCommitment(e.SecretCommitment); err != nil {
		return err
	}
	var sum uint64
	var prev int64
	for i, s := range e.Vesting {
		if i > 0 && s.TS <= prev {
			return ErrInvalidVestingSchedule
		}
		prev = s.TS
		sum += uint64(s.BasisPoints)
		if sum > BasisPointsTotal {
			return ErrInvalidVestingSchedule
		}
	}
	if e.ExpiryTS != nil {
		if e.UnlockTS != nil && *e.ExpiryTS < *e.UnlockTS {
			return ErrInvalidTimestampOrdering
		}
		for _, s := range e.Vesting {
			if *e.ExpiryTS < s.TS {
				return ErrInvalidTimestampOrdering
			}
		}
	}
	return nil
}

// ValidateCommitment checks that the commitment is a hex-encoded SHA-256
// digest.
func ValidateCommitment(commitment string) error {
	if len(commitment) != CommitmentHexLen {
		return ErrInvalidCommitment
	}
	if _, err := hex.DecodeString(commitment); err != nil {
		return ErrInvalidCommitment
	}
	return nil
}
