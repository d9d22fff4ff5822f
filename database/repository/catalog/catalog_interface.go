package catalogRepo

import (
	"reserva/models"
)

// CatalogRepository defines read access to the service catalog. The catalog
// is configured by the admin console; the engine treats it as read-only.
type CatalogRepository interface {
	// GetByID retrieves a service type, or nil if unknown.
	GetByID(id string) (*models.ServiceType, error)
	// ListAll retrieves every service type, active or not.
	ListAll() ([]models.ServiceType, error)
}
