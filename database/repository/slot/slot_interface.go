package slotRepo

import (
	"reserva/models"
)

// SlotRepository defines read access to slot documents. All writes happen
// inside the reservation transaction repository; nothing else may mutate
// slots.
type SlotRepository interface {
	// GetByKey retrieves the slot for (providerID, slotID), or nil if free.
	GetByKey(providerID, slotID string) (*models.Slot, error)
	// ListByDay retrieves all slots held on a provider-local calendar day.
	ListByDay(providerID, dateKey string) ([]models.Slot, error)
}
