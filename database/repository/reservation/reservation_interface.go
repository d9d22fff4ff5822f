package reservationRepo

import (
	"context"
	"errors"

	"reserva/models"
)

// ErrSlotTaken is returned when the target slot document already exists
// (booked or blocked) or when a concurrent transaction claimed it first.
var ErrSlotTaken = errors.New("slot already taken")

// ErrSlotMissing is returned when an expected slot document is absent.
var ErrSlotMissing = errors.New("slot not found")

// ErrSlotHeldByBooking is returned when RemoveBlock targets a slot that is
// held by a customer booking rather than an administrative block.
var ErrSlotHeldByBooking = errors.New("slot held by a booking")

// ReservationTxnRepository is the only write path for slot, booking and
// customer lifecycle state. Every method is one atomic multi-document
// transaction: it either commits in full or leaves no trace.
type ReservationTxnRepository interface {
	// CreateReservation claims the slot, inserts the booking and
	// creates-or-merges the customer. Returns ErrSlotTaken if the slot
	// document already exists.
	CreateReservation(ctx context.Context, slot *models.Slot, booking *models.Booking, customer *models.Customer) error
	// CancelReservation deletes the slot and marks the booking cancelled.
	CancelReservation(ctx context.Context, booking *models.Booking, slotID string) error
	// RescheduleReservation claims the new slot, releases the old one and
	// updates the booking, as one swap. Returns ErrSlotTaken if the new
	// slot is occupied.
	RescheduleReservation(ctx context.Context, booking *models.Booking, oldSlotID string, newSlot *models.Slot) error
	// TransitionStatus persists a validated status change together with
	// the matching customer counter update.
	TransitionStatus(ctx context.Context, booking *models.Booking, next models.BookingStatus) error
	// CreateBlock claims a slot administratively (kind=block).
	CreateBlock(ctx context.Context, slot *models.Slot) error
	// RemoveBlock releases an administrative block. Refuses to touch a
	// kind=booking slot.
	RemoveBlock(ctx context.Context, providerID, slotID string) error
}
