// This file implements envelope persistence for the SQLite backend.
// Envelopes hydrate between table rows and *types.Envelope; the vesting
// schedule travels as a JSON column; unset timestamps are NULLs, never
// zero sentinels.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

const envelopeColumns = `envelope_id, owner, beneficiary, total_amount, claimed_amount,
    secret_commitment, unlock_ts, vesting, expiry_ts, status, created_at, updated_at`

// GetEnvelope retrieves an envelope by id.
func (b *Backend) GetEnvelope(id string) (*types.Envelope, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.guard(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := b.db.QueryRow(
		"SELECT "+envelopeColumns+" FROM envelopes WHERE envelope_id = ?", id,
	)
	e, err := hydrateEnvelope(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrEnvelopeNotFound
		}
		return nil, fmt.Errorf("getting envelope %s: %w", id, err)
	}
	return e, nil
}

// PutEnvelope inserts a new envelope, rejecting duplicate ids.
func (b *Backend) PutEnvelope(e *types.Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}
	if e.ID == "" {
		return types.ErrInvalidID
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM envelopes WHERE envelope_id = ?", e.ID).Scan(&exists)
	if err == nil {
		return types.ErrDuplicateEnvelopeID
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking envelope existence: %w", err)
	}

	vestingJSON, err := json.Marshal(e.Vesting)
	if err != nil {
		return fmt.Errorf("encoding vesting schedule: %w", err)
	}
	_, err = b.db.Exec(
		`INSERT INTO envelopes (`+envelopeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Owner), string(e.Beneficiary), e.TotalAmount, e.ClaimedAmount,
		e.SecretCommitment, nullableTS(e.UnlockTS), string(vestingJSON),
		nullableTS(e.ExpiryTS), e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting envelope %s: %w", e.ID, err)
	}
	return nil
}

// UpdateEnvelope overwrites the mutable columns of an existing envelope.
// Identity columns (owner, beneficiary, amount, commitment, schedule) are
// written as-is; the service never changes them after creation.
func (b *Backend) UpdateEnvelope(e *types.Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}

	res, err := b.db.Exec(
		`UPDATE envelopes SET claimed_amount = ?, status = ?, updated_at = ? WHERE envelope_id = ?`,
		e.ClaimedAmount, e.Status, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating envelope %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating envelope %s: %w", e.ID, err)
	}
	if n == 0 {
		return types.ErrEnvelopeNotFound
	}
	return nil
}

// ListEnvelopes returns every envelope ordered by id.
func (b *Backend) ListEnvelopes() ([]*types.Envelope, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.guard(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT " + envelopeColumns + " FROM envelopes ORDER BY envelope_id")
	if err != nil {
		return nil, fmt.Errorf("listing envelopes: %w", err)
	}
	defer rows.Close()

	var out []*types.Envelope
	for rows.Next() {
		e, err := hydrateEnvelope(rows)
		if err != nil {
			return nil, fmt.Errorf("listing envelopes: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateEnvelope scans one envelope row into a *types.Envelope.
func hydrateEnvelope(row rowScanner) (*types.Envelope, error) {
	var (
		e           types.Envelope
		owner       string
		beneficiary string
		unlockTS    sql.NullInt64
		expiryTS    sql.NullInt64
		vestingJSON string
	)
	err := row.Scan(
		&e.ID, &owner, &beneficiary, &e.TotalAmount, &e.ClaimedAmount,
		&e.SecretCommitment, &unlockTS, &vestingJSON, &expiryTS,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Owner = types.Principal(owner)
	e.Beneficiary = types.Principal(beneficiary)
	if unlockTS.Valid {
		ts := unlockTS.Int64
		e.UnlockTS = &ts
	}
	if expiryTS.Valid {
		ts := expiryTS.Int64
		e.ExpiryTS = &ts
	}
	if err := json.Unmarshal([]byte(vestingJSON), &e.Vesting); err != nil {
		return nil, fmt.Errorf("decoding vesting schedule: %w", err)
	}
	return &e, nil
}

// nullableTS maps an optional timestamp to its SQL representation.
func nullableTS(ts *int64) any {
	if ts == nil {
		return nil
	}
	return *ts
}
