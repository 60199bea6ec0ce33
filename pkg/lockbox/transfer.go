package lockbox

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Transferor receives value-transfer instructions. The core computes exact
// amounts and trusts the transferor to settle atomically with the
// invocation; it never retries.
type Transferor interface {
	Transfer(t *types.Transfer) error
}

// JournalTransferor records transfer instructions in the store's journal.
// It is the default settlement boundary: an external process drains the
// journal and moves actual value.
type JournalTransferor struct {
	store types.Store
}

// NewJournalTransferor creates a transferor that appends to store's
// journal.
func NewJournalTransferor(store types.Store) *JournalTransferor {
	return &JournalTransferor{store: store}
}

// Transfer assigns the instruction an ID and appends it to the journal.
func (jt *JournalTransferor) Transfer(t *types.Transfer) error {
	if t.Amount <= 0 {
		return fmt.Errorf("transfer amount %d: %w", t.Amount, types.ErrZeroAmount)
	}
	if t.ID == "" {
		t.ID = newID()
	}
	return jt.store.AppendTransfer(t)
}

// newID generates a UUID v7, falling back to v4 if v7 generation fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
