// Package sqlite implements the SQLite storage backend for Lockbox: the
// envelopes table, the registry and proposal singleton rows, and the
// transfer journal with its JSONL audit mirror.
package sqlite

// Schema DDL. The database file is the durable store, so every statement
// is idempotent and Attach never recreates it.
const (
	createEnvelopes = `CREATE TABLE IF NOT EXISTS envelopes (
    envelope_id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    beneficiary TEXT NOT NULL,
    total_amount INTEGER NOT NULL,
    claimed_amount INTEGER NOT NULL,
    secret_commitment TEXT NOT NULL,
    unlock_ts INTEGER,
    vesting TEXT NOT NULL,
    expiry_ts INTEGER,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);`

	createRegistry = `CREATE TABLE IF NOT EXISTS registry (
    registry_id INTEGER PRIMARY KEY CHECK (registry_id = 1),
    owner TEXT NOT NULL,
    guardians TEXT NOT NULL,
    recovery_threshold INTEGER NOT NULL,
    recovery_delay INTEGER NOT NULL
);`

	createProposals = `CREATE TABLE IF NOT EXISTS proposals (
    proposal_id INTEGER PRIMARY KEY CHECK (proposal_id = 1),
    new_owner TEXT NOT NULL,
    votes TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    executed INTEGER NOT NULL DEFAULT 0
);`

	createTransfers = `CREATE TABLE IF NOT EXISTS transfers (
    transfer_id TEXT PRIMARY KEY,
    envelope_id TEXT NOT NULL,
    recipient TEXT NOT NULL,
    amount INTEGER NOT NULL,
    reason TEXT NOT NULL,
    issued_at INTEGER NOT NULL
);`
)

// schemaStatements lists the DDL executed on Attach, in order.
var schemaStatements = []string{
	createEnvelopes,
	createRegistry,
	createProposals,
	createTransfers,
}
