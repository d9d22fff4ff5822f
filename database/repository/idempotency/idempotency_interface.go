package idemRepo

import (
	"reserva/models"
)

// IdempotencyRepository is the dedup ledger consulted before every gateway
// call. A key in state sent means the message was delivered once already.
type IdempotencyRepository interface {
	// Get retrieves a record by key, or nil if the key was never seen.
	Get(key string) (*models.IdempotencyRecord, error)
	// PutPending records a key before the gateway call. Re-putting an
	// existing key is a no-op.
	PutPending(key string) error
	// MarkSent flips a key to sent after successful delivery.
	MarkSent(key string) error
}
