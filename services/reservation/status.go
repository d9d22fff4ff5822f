package reservation

import (
	"context"
	"fmt"

	"reserva/models"

	"go.uber.org/zap"
)

// Transition advances a booking along the fixed status graph. Terminal
// states are sinks: any attempt to leave them is rejected without mutation.
// Counter updates (completed, no-show) ride in the same transaction as the
// status write.
func (co *DefaultCoordinator) Transition(ctx context.Context, bookingID string, next models.BookingStatus) error {
	switch next {
	case models.StatusConfirmed, models.StatusCompleted, models.StatusNoShow:
	default:
		return NewValidationError(fmt.Sprintf("unknown target status %q", next))
	}

	booking, err := co.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking lookup failed: %w", err)
	}
	if booking == nil {
		return NewNotFoundError(fmt.Sprintf("booking %q not found", bookingID))
	}

	if !booking.Status.CanTransitionTo(next) {
		return NewIllegalTransitionError(fmt.Sprintf(
			"transition %s -> %s is not allowed", booking.Status, next))
	}

	if err := co.TxnRepo.TransitionStatus(ctx, booking, next); err != nil {
		return err
	}

	co.Logger.Info("booking status changed",
		zap.String("bookingId", bookingID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(next)))
	return nil
}
