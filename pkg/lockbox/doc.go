// Package lockbox implements the envelope lifecycle service: creation,
// secret-gated claims with vesting accrual, revocation, post-expiry
// refunds, and guardian-quorum ownership recovery.
//
// The service owns a types.Store and issues value-transfer instructions
// through a Transferor. Every public operation reads the clock exactly
// once, validates before it writes, and leaves no state behind on failure.
// The surrounding runtime serializes operations; the service itself holds
// no locks.
package lockbox

// Version is the lockbox release version.
const Version = "v0.3.0"
