package types

import "errors"

// Initialization and authorization errors.
var (
	ErrNotInitialized     = errors.New("lockbox is not initialized")
	ErrAlreadyInitialized = errors.New("lockbox is already initialized")
	ErrUnauthorized       = errors.New("caller is not authorized")
)

// Envelope lifecycle errors.
var (
	ErrEnvelopeNotFound         = errors.New("envelope not found")
	ErrDuplicateEnvelopeID      = errors.New("envelope id already exists")
	ErrZeroAmount               = errors.New("amount must be positive")
	ErrInvalidVestingSchedule   = errors.New("invalid vesting schedule")
	ErrInvalidTimestampOrdering = errors.New("expiry precedes unlock or vesting timestamps")
	ErrIncorrectSecret          = errors.New("secret does not match commitment")
	ErrInvalidState             = errors.New("envelope is not active")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrZeroClaimable            = errors.New("nothing claimable")
	ErrRevokeAfterClaim         = errors.New("cannot revoke after a claim")
	ErrNotExpired               = errors.New("envelope has not expired")
)

// Guardian recovery errors.
var (
	ErrInvalidGuardianConfig     = errors.New("invalid guardian configuration")
	ErrRecoveryDisabled          = errors.New("recovery is disabled")
	ErrNoActiveProposal          = errors.New("no active recovery proposal")
	ErrDuplicateVote             = errors.New("guardian has already voted")
	ErrInsufficientGuardianVotes = errors.New("votes below recovery threshold")
	ErrRecoveryDelayNotElapsed   = errors.New("recovery delay has not elapsed")
)

// Arithmetic and input errors.
var (
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidCommitment  = errors.New("invalid secret commitment")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)
