package models

// CustomerInput is the customer block of a reservation request. Phone may
// arrive in any local format; it is normalized before any derivation.
type CustomerInput struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone" binding:"required"`
	BirthDate      string `json:"birthDate,omitempty"`
	MarketingOptIn bool   `json:"marketingOptIn,omitempty"`
}

// ReservationInput is the public create-reservation request.
type ReservationInput struct {
	ProviderID string        `json:"providerId" binding:"required"`
	ServiceID  string        `json:"serviceId" binding:"required"`
	SlotStart  string        `json:"slotStartLocalISO" binding:"required"` // shop-local, "2006-01-02T15:04" or RFC3339
	Customer   CustomerInput `json:"customer" binding:"required"`
}

// RescheduleInput moves an existing booking to a new slot.
type RescheduleInput struct {
	NewSlotStart string `json:"newSlotStartLocalISO" binding:"required"`
}

// TransitionInput advances a booking along the status graph.
type TransitionInput struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// CancelBySecretInput authenticates a public cancellation.
type CancelBySecretInput struct {
	CancelCode string `json:"cancelCode" binding:"required"`
}

// BlockSlotInput marks a provider slot administratively unavailable.
type BlockSlotInput struct {
	ProviderID string `json:"providerId" binding:"required"`
	SlotStart  string `json:"slotStartLocalISO" binding:"required"`
}

// BroadcastInput is a supervised mass-send request. The template may contain
// a {firstName} placeholder substituted per recipient.
type BroadcastInput struct {
	Template  string `json:"template" binding:"required"`
	ImageURL  string `json:"imageUrl,omitempty"`
	OnlyOptIn bool   `json:"onlyOptIn"`
	MaxSends  int    `json:"maxSends,omitempty"`
}
