package providerRepo

import (
	"reserva/models"
)

// ProviderRepository defines read access to provider records. Provider
// management lives in the admin console; the reservation engine only reads
// names, day-off settings and weekly schedules.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID, or nil if unknown.
	GetByID(id string) (*models.Provider, error)
	// ListActive retrieves all active providers.
	ListActive() ([]models.Provider, error)
}
