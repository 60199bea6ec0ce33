// This file implements the registry and recovery-proposal singleton rows.
// Both tables hold at most one row, pinned to id 1 by a CHECK constraint;
// guardian and vote sets travel as JSON columns.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// GetRegistry returns the singleton ownership record.
func (b *Backend) GetRegistry() (*types.Registry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.guard(); err != nil {
		return nil, err
	}
	return b.getRegistryLocked()
}

// getRegistryLocked reads the registry row. The caller must hold b.mu.
func (b *Backend) getRegistryLocked() (*types.Registry, error) {
	var (
		r             types.Registry
		owner         string
		guardiansJSON string
	)
	err := b.db.QueryRow(
		"SELECT owner, guardians, recovery_threshold, recovery_delay FROM registry WHERE registry_id = 1",
	).Scan(&owner, &guardiansJSON, &r.RecoveryThreshold, &r.RecoveryDelay)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("getting registry: %w", err)
	}
	r.Owner = types.Principal(owner)
	if err := json.Unmarshal([]byte(guardiansJSON), &r.Guardians); err != nil {
		return nil, fmt.Errorf("decoding guardians: %w", err)
	}
	return &r, nil
}

// PutRegistry stores the registry once; a second call fails with
// ErrAlreadyInitialized.
func (b *Backend) PutRegistry(r *types.Registry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}
	if _, err := b.getRegistryLocked(); err == nil {
		return types.ErrAlreadyInitialized
	} else if err != types.ErrNotInitialized {
		return err
	}

	guardiansJSON, err := json.Marshal(r.Guardians)
	if err != nil {
		return fmt.Errorf("encoding guardians: %w", err)
	}
	_, err = b.db.Exec(
		"INSERT INTO registry (registry_id, owner, guardians, recovery_threshold, recovery_delay) VALUES (1, ?, ?, ?, ?)",
		string(r.Owner), string(guardiansJSON), r.RecoveryThreshold, r.RecoveryDelay,
	)
	if err != nil {
		return fmt.Errorf("inserting registry: %w", err)
	}
	return nil
}

// SetOwner replaces the registered owner in place.
func (b *Backend) SetOwner(owner types.Principal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}
	res, err := b.db.Exec("UPDATE registry SET owner = ? WHERE registry_id = 1", string(owner))
	if err != nil {
		return fmt.Errorf("setting owner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting owner: %w", err)
	}
	if n == 0 {
		return types.ErrNotInitialized
	}
	return nil
}

// GetProposal returns the live recovery proposal.
func (b *Backend) GetProposal() (*types.RecoveryProposal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.guard(); err != nil {
		return nil, err
	}

	var (
		p         types.RecoveryProposal
		newOwner  string
		votesJSON string
		executed  int
	)
	err := b.db.QueryRow(
		"SELECT new_owner, votes, created_at, executed FROM proposals WHERE proposal_id = 1",
	).Scan(&newOwner, &votesJSON, &p.CreatedAt, &executed)
	if err == sql.ErrNoRows {
		return nil, types.ErrNoActiveProposal
	}
	if err != nil {
		return nil, fmt.Errorf("getting proposal: %w", err)
	}
	p.NewOwner = types.Principal(newOwner)
	p.Executed = executed != 0

	var votes []types.Principal
	if err := json.Unmarshal([]byte(votesJSON), &votes); err != nil {
		return nil, fmt.Errorf("decoding votes: %w", err)
	}
	p.Votes = make(map[types.Principal]bool, len(votes))
	for _, v := range votes {
		p.Votes[v] = true
	}
	return &p, nil
}

// PutProposal stores the live proposal, replacing any prior one.
func (b *Backend) PutProposal(p *types.RecoveryProposal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}

	votes := make([]types.Principal, 0, len(p.Votes))
	for v := range p.Votes {
		votes = append(votes, v)
	}
	// Stable column content regardless of map iteration order.
	sort.Slice(votes, func(i, j int) bool { return votes[i] < votes[j] })
	votesJSON, err := json.Marshal(votes)
	if err != nil {
		return fmt.Errorf("encoding votes: %w", err)
	}

	executed := 0
	if p.Executed {
		executed = 1
	}
	_, err = b.db.Exec(
		`INSERT INTO proposals (proposal_id, new_owner, votes, created_at, executed)
         VALUES (1, ?, ?, ?, ?)
         ON CONFLICT (proposal_id) DO UPDATE SET
             new_owner = excluded.new_owner,
             votes = excluded.votes,
             created_at = excluded.created_at,
             executed = excluded.executed`,
		string(p.NewOwner), string(votesJSON), p.CreatedAt, executed,
	)
	if err != nil {
		return fmt.Errorf("storing proposal: %w", err)
	}
	return nil
}

// ClearProposal removes the live proposal. Idempotent.
func (b *Backend) ClearProposal() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.guard(); err != nil {
		return err
	}
	if _, err := b.db.Exec("DELETE FROM proposals WHERE proposal_id = 1"); err != nil {
		return fmt.Errorf("clearing proposal: %w", err)
	}
	return nil
}
