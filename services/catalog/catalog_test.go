package catalog

import (
	"testing"
	"time"

	"reserva/models"
)

type fakeCatalogRepo struct {
	services []models.ServiceType
	listed   int
}

func (f *fakeCatalogRepo) GetByID(id string) (*models.ServiceType, error) {
	for _, s := range f.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) ListAll() ([]models.ServiceType, error) {
	f.listed++
	return f.services, nil
}

func TestCachedServiceCatalog(t *testing.T) {
	repo := &fakeCatalogRepo{services: []models.ServiceType{
		{ID: "corte", Label: "Corte", PriceCents: 5000, DurationMin: 30, Active: true},
		{ID: "barba", Label: "Barba", PriceCents: 3000, DurationMin: 30, Active: false},
	}}

	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	c := NewCachedServiceCatalog(repo, time.Minute)
	c.Now = func() time.Time { return now }

	svc, err := c.GetService("corte")
	if err != nil {
		t.Fatal(err)
	}
	if svc == nil || svc.Label != "Corte" {
		t.Fatalf("GetService(corte) = %+v", svc)
	}

	if unknown, _ := c.GetService("nope"); unknown != nil {
		t.Errorf("unknown service should be nil, got %+v", unknown)
	}

	// Within TTL the repo is hit only once.
	if _, err := c.ListServices(); err != nil {
		t.Fatal(err)
	}
	if repo.listed != 1 {
		t.Errorf("repo listed %d times before expiry, want 1", repo.listed)
	}

	// Past the TTL the snapshot reloads.
	now = now.Add(2 * time.Minute)
	if _, err := c.GetService("corte"); err != nil {
		t.Fatal(err)
	}
	if repo.listed != 2 {
		t.Errorf("repo listed %d times after expiry, want 2", repo.listed)
	}
}

func TestCachedServiceCatalogListOrder(t *testing.T) {
	repo := &fakeCatalogRepo{services: []models.ServiceType{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}
	c := NewCachedServiceCatalog(repo, time.Minute)

	services, err := c.ListServices()
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 3 || services[0].ID != "a" || services[2].ID != "c" {
		t.Errorf("snapshot must preserve repo order, got %+v", services)
	}
}
