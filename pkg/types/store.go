package types

// Store is the durable keyed collection behind the lockbox service:
// envelopes keyed by id, plus two singleton records (the owner registry and
// the live recovery proposal) and an append-only transfer journal.
//
// Envelopes are never physically deleted; terminal records stay queryable
// for audit. Implementations return deep copies, so callers cannot mutate
// stored state except through Put/Update.
type Store interface {
	// GetEnvelope retrieves the envelope with the given id.
	// Returns ErrEnvelopeNotFound if no envelope exists with that id.
	GetEnvelope(id string) (*Envelope, error)

	// PutEnvelope stores a new envelope.
	// Returns ErrDuplicateEnvelopeID if the id is already taken.
	PutEnvelope(e *Envelope) error

	// UpdateEnvelope overwrites an existing envelope.
	// Returns ErrEnvelopeNotFound if the id is unknown.
	UpdateEnvelope(e *Envelope) error

	// ListEnvelopes returns every envelope, terminal ones included.
	ListEnvelopes() ([]*Envelope, error)

	// GetRegistry returns the singleton ownership record.
	// Returns ErrNotInitialized if Initialize has not run.
	GetRegistry() (*Registry, error)

	// PutRegistry stores the singleton ownership record.
	// Returns ErrAlreadyInitialized if one is already stored.
	PutRegistry(r *Registry) error

	// SetOwner replaces the registered owner, leaving guardians and
	// recovery parameters untouched.
	SetOwner(owner Principal) error

	// GetProposal returns the live recovery proposal.
	// Returns ErrNoActiveProposal if none exists.
	GetProposal() (*RecoveryProposal, error)

	// PutProposal stores the live proposal, replacing any prior one.
	PutProposal(p *RecoveryProposal) error

	// ClearProposal removes the live proposal. Clearing when none exists
	// is not an error.
	ClearProposal() error

	// AppendTransfer records a transfer instruction in the journal.
	AppendTransfer(t *Transfer) error

	// ListTransfers returns the journal in issue order.
	ListTransfers() ([]*Transfer, error)
}

// Attachable is implemented by stores with an explicit attach/detach
// lifecycle, such as the SQLite backend. Attach connects to the backend
// described by config; Detach releases resources and is idempotent.
type Attachable interface {
	Attach(config Config) error
	Detach() error
}
