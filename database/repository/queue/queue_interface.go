package queueRepo

import (
	"reserva/models"
)

// QueueRepository persists not-yet-delivered outbound messages.
type QueueRepository interface {
	// Insert parks a freshly failed message as pending.
	Insert(item *models.OutboundQueueItem) error
	// FetchPending retrieves up to limit pending items, oldest first.
	FetchPending(limit int) ([]models.OutboundQueueItem, error)
	// MarkSent finalizes a delivered item.
	MarkSent(id string) error
	// MarkFailure records a failed attempt; terminal flips status to failed.
	MarkFailure(id string, attempts int, lastError string, terminal bool) error
	// ResetForRetry re-arms a terminally failed item (operator action).
	ResetForRetry(id string) error
	// ListByStatus retrieves up to limit items in the given status.
	ListByStatus(status models.QueueStatus, limit int) ([]models.OutboundQueueItem, error)
}
