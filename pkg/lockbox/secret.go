package lockbox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// HashSecret returns the hex-encoded SHA-256 commitment for a secret
// preimage. Owners call this when creating an envelope; claims present the
// preimage itself.
func HashSecret(preimage []byte) string {
	sum := sha256.Sum256(preimage)
	return hex.EncodeToString(sum[:])
}

// verifySecret checks the preimage against a stored commitment in constant
// time. Returns types.ErrIncorrectSecret on mismatch.
func verifySecret(commitment string, preimage []byte) error {
	want, err := hex.DecodeString(commitment)
	if err != nil {
		return types.ErrInvalidCommitment
	}
	got := sha256.Sum256(preimage)
	if subtle.ConstantTimeCompare(want, got[:]) != 1 {
		return types.ErrIncorrectSecret
	}
	return nil
}
