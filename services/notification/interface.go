package notification

import (
	"context"

	"reserva/models"
)

// Message kinds, part of every idempotency key.
const (
	KindConfirmation = "confirmation"
	KindCancellation = "cancellation"
	KindReminder     = "reminder"
	KindBirthday     = "birthday"
	KindBroadcast    = "broadcast"
)

// Gateway abstracts the external WhatsApp messaging service. Any non-2xx
// result surfaces as an error; bodies are not interpreted beyond extracting
// a human-readable message.
type Gateway interface {
	SendText(ctx context.Context, phone, text string) error
	SendMedia(ctx context.Context, phone, mediaURL, caption string) error
}

// SweepReport summarizes one queue sweep run.
type SweepReport struct {
	Fetched   int `json:"fetched"`
	Sent      int `json:"sent"`
	Retained  int `json:"retained"`  // still pending, will be retried
	Exhausted int `json:"exhausted"` // flipped to failed this run
}

// BroadcastReport summarizes a supervised mass send.
type BroadcastReport struct {
	Recipients int      `json:"recipients"`
	Sent       int      `json:"sent"`
	Skipped    int      `json:"skipped"` // deduped by the idempotency ledger
	Errors     []string `json:"errors,omitempty"`
}

// NotificationService delivers human-readable messages through the gateway
// without ever blocking the operation that triggered them and without
// double-sending.
type NotificationService interface {
	// SendBookingConfirmation delivers the confirmation for a fresh
	// booking, carrying the self-service cancel link.
	SendBookingConfirmation(ctx context.Context, booking *models.Booking, customer *models.Customer, cancelCode string) error
	// SendCancellation confirms a cancellation to the customer.
	SendCancellation(ctx context.Context, booking *models.Booking, customer *models.Customer) error
	// SendReminderForBooking delivers the day-before reminder, skipping
	// bookings that were cancelled in the meantime.
	SendReminderForBooking(ctx context.Context, bookingID string) error
	// SweepQueue retries up to limit pending queue items, oldest first.
	SweepQueue(ctx context.Context, limit int) (SweepReport, error)
	// Broadcast mass-sends a template with per-recipient substitution.
	Broadcast(ctx context.Context, input models.BroadcastInput) (BroadcastReport, error)
	// BroadcastBirthdays greets every customer whose birthday is today.
	BroadcastBirthdays(ctx context.Context) (BroadcastReport, error)
}
