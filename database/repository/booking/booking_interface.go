package bookingRepo

import (
	"reserva/models"
)

// BookingRepository defines read access plus the one best-effort write the
// dispatcher performs. Lifecycle mutations go through the reservation
// transaction repository.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID, or nil if unknown.
	GetByID(id string) (*models.Booking, error)
	// GetByCancelHash retrieves the booking matching a cancel-code digest,
	// or nil. The public cancel path never trusts a caller-supplied id.
	GetByCancelHash(hash string) (*models.Booking, error)
	// ListByProviderDay retrieves bookings for a provider-local day.
	ListByProviderDay(providerID, dateKey string) ([]models.Booking, error)
	// SetWhatsappStatus opportunistically records delivery of the
	// confirmation message. Failures here are not delivery failures.
	SetWhatsappStatus(id string, status models.WhatsappStatus) error
}
