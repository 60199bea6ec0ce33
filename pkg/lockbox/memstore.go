package lockbox

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Compile-time interface check: MemoryStore must implement Store.
var _ types.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of types.Store backed by a
// map. It is the test substitute for the SQLite backend and is safe for
// concurrent use. All accessors copy records; callers never alias stored
// state.
type MemoryStore struct {
	mu        sync.RWMutex
	envelopes map[string]*types.Envelope
	registry  *types.Registry
	proposal  *types.RecoveryProposal
	transfers []*types.Transfer
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		envelopes: make(map[string]*types.Envelope),
	}
}

// GetEnvelope returns a copy of the envelope with the given id.
func (m *MemoryStore) GetEnvelope(id string) (*types.Envelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.envelopes[id]
	if !ok {
		return nil, types.ErrEnvelopeNotFound
	}
	return e.Clone(), nil
}

// PutEnvelope stores a new envelope, rejecting duplicate ids.
func (m *MemoryStore) PutEnvelope(e *types.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		return types.ErrInvalidID
	}
	if _, ok := m.envelopes[e.ID]; ok {
		return types.ErrDuplicateEnvelopeID
	}
	m.envelopes[e.ID] = e.Clone()
	return nil
}

// UpdateEnvelope overwrites an existing envelope.
func (m *MemoryStore) UpdateEnvelope(e *types.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.envelopes[e.ID]; !ok {
		return types.ErrEnvelopeNotFound
	}
	m.envelopes[e.ID] = e.Clone()
	return nil
}

// ListEnvelopes returns copies of every envelope, ordered by id.
func (m *MemoryStore) ListEnvelopes() ([]*types.Envelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Envelope, 0, len(m.envelopes))
	for _, e := range m.envelopes {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetRegistry returns a copy of the singleton registry.
func (m *MemoryStore) GetRegistry() (*types.Registry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.registry == nil {
		return nil, types.ErrNotInitialized
	}
	return m.registry.Clone(), nil
}

// PutRegistry stores the registry once.
func (m *MemoryStore) PutRegistry(r *types.Registry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registry != nil {
		return types.ErrAlreadyInitialized
	}
	m.registry = r.Clone()
	return nil
}

// SetOwner replaces the registered owner.
func (m *MemoryStore) SetOwner(owner types.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registry == nil {
		return types.ErrNotInitialized
	}
	m.registry.Owner = owner
	return nil
}

// GetProposal returns a copy of the live recovery proposal.
func (m *MemoryStore) GetProposal() (*types.RecoveryProposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.proposal == nil {
		return nil, types.ErrNoActiveProposal
	}
	return m.proposal.Clone(), nil
}

// PutProposal stores the live proposal, replacing any prior one.
func (m *MemoryStore) PutProposal(p *types.RecoveryProposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.proposal = p.Clone()
	return nil
}

// ClearProposal removes the live proposal. Idempotent.
func (m *MemoryStore) ClearProposal() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.proposal = nil
	return nil
}

// AppendTransfer records a transfer instruction.
func (m *MemoryStore) AppendTransfer(t *types.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *t
	m.transfers = append(m.transfers, &copied)
	return nil
}

// ListTransfers returns copies of the journal in issue order.
func (m *MemoryStore) ListTransfers() ([]*types.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Transfer, 0, len(m.transfers))
	for _, t := range m.transfers {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}
