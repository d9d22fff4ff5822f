package catalog

import (
	"fmt"
	"sync"
	"time"

	catalogRepo "reserva/database/repository/catalog"
	"reserva/models"
)

// ServiceCatalog exposes read access to the shop's bookable services.
type ServiceCatalog interface {
	// GetService retrieves a service type, or nil if unknown.
	GetService(id string) (*models.ServiceType, error)
	// ListServices retrieves every service type.
	ListServices() ([]models.ServiceType, error)
}

// catalogCache is an explicit cache value: the data plus its expiry. It is
// owned by the catalog instance, never a package global, so tests can inject
// a fresh catalog per run.
type catalogCache struct {
	byID      map[string]models.ServiceType
	ordered   []models.ServiceType
	expiresAt time.Time
}

// CachedServiceCatalog implements ServiceCatalog with a time-boxed in-memory
// snapshot of the services collection.
type CachedServiceCatalog struct {
	Repo catalogRepo.CatalogRepository
	TTL  time.Duration
	Now  func() time.Time // defaults to time.Now

	mu    sync.Mutex
	cache *catalogCache
}

// NewCachedServiceCatalog builds a catalog with the given snapshot TTL.
func NewCachedServiceCatalog(repo catalogRepo.CatalogRepository, ttl time.Duration) *CachedServiceCatalog {
	return &CachedServiceCatalog{Repo: repo, TTL: ttl}
}

func (c *CachedServiceCatalog) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// snapshot returns the current cache, reloading it when expired.
func (c *CachedServiceCatalog) snapshot() (*catalogCache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache != nil && c.now().Before(c.cache.expiresAt) {
		return c.cache, nil
	}

	services, err := c.Repo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load service catalog: %w", err)
	}

	byID := make(map[string]models.ServiceType, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}
	c.cache = &catalogCache{
		byID:      byID,
		ordered:   services,
		expiresAt: c.now().Add(c.TTL),
	}
	return c.cache, nil
}

// GetService retrieves a service type from the snapshot.
func (c *CachedServiceCatalog) GetService(id string) (*models.ServiceType, error) {
	snap, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if s, ok := snap.byID[id]; ok {
		return &s, nil
	}
	return nil, nil
}

// ListServices retrieves every service type from the snapshot.
func (c *CachedServiceCatalog) ListServices() ([]models.ServiceType, error) {
	snap, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ordered, nil
}
