package lockbox

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Clock supplies the current time as unix seconds. Each public operation
// reads it exactly once, so a single invocation sees one consistent "now".
type Clock func() int64

// Service orchestrates the envelope lifecycle over a types.Store. It is
// the only component that mutates the store.
type Service struct {
	store    types.Store
	transfer Transferor
	now      Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock. Tests use this to pin time.
func WithClock(c Clock) Option {
	return func(s *Service) { s.now = c }
}

// WithTransferor replaces the default journaling transferor.
func WithTransferor(t Transferor) Option {
	return func(s *Service) { s.transfer = t }
}

// New creates a Service over the given store. By default transfers are
// journaled into the store and time comes from the system clock.
func New(store types.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transfer == nil {
		s.transfer = NewJournalTransferor(store)
	}
	return s
}

// Initialize stores the singleton registry: the owner, the guardian set,
// the recovery threshold, and the recovery delay in seconds. Calling it a
// second time fails with types.ErrAlreadyInitialized; that is the one
// permanent configuration error.
func (s *Service) Initialize(owner types.Principal, guardians []types.Principal, threshold int, delay int64) error {
	reg := &types.Registry{
		Owner:             owner,
		Guardians:         guardians,
		RecoveryThreshold: threshold,
		RecoveryDelay:     delay,
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := s.store.PutRegistry(reg); err != nil {
		return err
	}
	return nil
}

// Registry returns a copy of the ownership record.
// Returns types.ErrNotInitialized before Initialize.
func (s *Service) Registry() (*types.Registry, error) {
	return s.store.GetRegistry()
}

// requireOwner loads the registry and checks that caller is the registered
// owner.
func (s *Service) requireOwner(caller types.Principal) (*types.Registry, error) {
	reg, err := s.store.GetRegistry()
	if err != nil {
		return nil, err
	}
	if caller != reg.Owner {
		return nil, fmt.Errorf("caller %q is not the owner: %w", caller, types.ErrUnauthorized)
	}
	return reg, nil
}

// requireGuardian loads the registry and checks that caller belongs to the
// guardian set and that recovery is enabled at all.
func (s *Service) requireGuardian(caller types.Principal) (*types.Registry, error) {
	reg, err := s.store.GetRegistry()
	if err != nil {
		return nil, err
	}
	if !reg.RecoveryEnabled() {
		return nil, fmt.Errorf("%w: %w", types.ErrRecoveryDisabled, types.ErrUnauthorized)
	}
	if !reg.IsGuardian(caller) {
		return nil, fmt.Errorf("caller %q is not a guardian: %w", caller, types.ErrUnauthorized)
	}
	return reg, nil
}
