// Package types defines the Store interface, domain entities, and standard
// error values for the Lockbox envelope system: envelopes that lock an
// amount for a beneficiary behind a secret commitment, an optional
// time-lock, a vesting schedule, and an owner registry recoverable by a
// guardian quorum.
package types
