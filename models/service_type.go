// models/service_type.go
package models

// ServiceType represents one bookable service in the shop catalog.
// The catalog itself is maintained elsewhere; the reservation engine only
// reads it to validate Create requests and render messages.
type ServiceType struct {
	ID          string `bson:"id" json:"id"`
	Label       string `bson:"label" json:"label"` // e.g., "Corte", "Barba"
	PriceCents  int    `bson:"price_cents" json:"price_cents"`
	DurationMin int    `bson:"duration_min" json:"duration_min"`
	Active      bool   `bson:"active" json:"active"`
}
