package models

import "time"

// IdempotencyStatus marks whether a keyed message made it to the gateway.
type IdempotencyStatus string

const (
	IdempotencyPending IdempotencyStatus = "pending"
	IdempotencySent    IdempotencyStatus = "sent"
)

// IdempotencyRecord dedups outbound messages. The key is a digest over
// (kind, target, rendered content); a record in state sent means the exact
// message was already delivered and must never be re-sent.
type IdempotencyRecord struct {
	Key       string            `bson:"key" json:"key"`
	Status    IdempotencyStatus `bson:"status" json:"status"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
}
