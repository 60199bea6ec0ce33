package types

// Transfer reasons recorded in the journal.
const (
	TransferReasonClaim  = "claim"
	TransferReasonRevoke = "revoke"
	TransferReasonRefund = "refund"
)

// Transfer is a value-transfer instruction issued by the core to the
// external settlement layer. The core computes exact amounts and records
// the instruction; it does not move value itself.
type Transfer struct {
	ID         string    `json:"id"`
	EnvelopeID string    `json:"envelope_id"`
	To         Principal `json:"to"`
	Amount     int64     `json:"amount"`
	Reason     string    `json:"reason"`
	IssuedAt   int64     `json:"issued_at"`
}
