package reservation

import (
	"context"
	"time"

	"reserva/models"
)

// ReminderScheduler enqueues a deferred reminder task. Implemented by the
// asynq task client; callers receive no completion signal and must not
// assume ordering relative to their own response.
type ReminderScheduler interface {
	ScheduleReminder(bookingID string, fireAt time.Time) error
}

// Coordinator is the only path through which slot, booking and customer
// state may change for a reservation lifecycle event.
type Coordinator interface {
	// Create validates the request, runs the atomic reservation
	// transaction, and fires the confirmation asynchronously.
	Create(ctx context.Context, input models.ReservationInput) (*models.BookingResult, error)
	// Cancel cancels a booking by id (admin path).
	Cancel(ctx context.Context, bookingID string) error
	// CancelByCode cancels the booking matching the presented secret.
	CancelByCode(ctx context.Context, cancelCode string) error
	// Reschedule atomically swaps a booking to a new slot.
	Reschedule(ctx context.Context, bookingID string, newSlotStart string) error
	// Transition advances a booking along the fixed status graph.
	Transition(ctx context.Context, bookingID string, next models.BookingStatus) error
	// Availability lists held and blocked slot ids for a provider day.
	Availability(ctx context.Context, providerID, dateKey string) (*models.DayAvailability, error)
	// ListDay lists bookings for a provider-local day (admin console).
	ListDay(ctx context.Context, providerID, dateKey string) ([]models.Booking, error)
	// BlockSlot administratively claims a slot.
	BlockSlot(ctx context.Context, input models.BlockSlotInput) error
	// UnblockSlot releases an administrative block.
	UnblockSlot(ctx context.Context, input models.BlockSlotInput) error
}
