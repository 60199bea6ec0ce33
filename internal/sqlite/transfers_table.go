// This file implements the transfer journal: an append-only table plus a
// JSONL mirror that settlement tooling can tail without opening the
// database.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// AppendTransfer records a transfer instruction in the journal and mirrors
// it to transfers.jsonl.
func (b *Backend) AppendTransfer(t *types.Transfer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}
	if t.ID == "" {
		return types.ErrInvalidID
	}

	_, err := b.db.Exec(
		"INSERT INTO transfers (transfer_id, envelope_id, recipient, amount, reason, issued_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.EnvelopeID, string(t.To), t.Amount, t.Reason, t.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting transfer %s: %w", t.ID, err)
	}
	if err := appendAuditLine(b.auditPath(), t); err != nil {
		return fmt.Errorf("mirroring transfer %s: %w", t.ID, err)
	}
	return nil
}

// ListTransfers returns the journal in issue order.
func (b *Backend) ListTransfers() ([]*types.Transfer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.guard(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT transfer_id, envelope_id, recipient, amount, reason, issued_at FROM transfers ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var out []*types.Transfer
	for rows.Next() {
		var (
			t         types.Transfer
			recipient string
		)
		err := rows.Scan(&t.ID, &t.EnvelopeID, &recipient, &t.Amount, &t.Reason, &t.IssuedAt)
		if err != nil {
			return nil, fmt.Errorf("listing transfers: %w", err)
		}
		t.To = types.Principal(recipient)
		out = append(out, &t)
	}
	return out, rows.Err()
}
