package models

import "time"

// QueueStatus is the lifecycle of an outbound queue item.
type QueueStatus string

const (
	QueuePending QueueStatus = "pending"
	QueueSent    QueueStatus = "sent"
	QueueFailed  QueueStatus = "failed"
)

// MaxSendAttempts bounds automatic retries per queue item.
const MaxSendAttempts = 3

// OutboundQueueItem is a message that failed synchronous delivery and is
// waiting for the sweeper. Created only on delivery failure.
type OutboundQueueItem struct {
	ID          string      `bson:"id" json:"id"`
	BookingID   string      `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	CustomerID  string      `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	TargetPhone string      `bson:"target_phone" json:"target_phone"`
	MessageType string      `bson:"message_type" json:"message_type"`
	MessageText string      `bson:"message_text" json:"message_text"`
	Status      QueueStatus `bson:"status" json:"status"`
	Attempts    int         `bson:"attempts" json:"attempts"`
	LastError   string      `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}
