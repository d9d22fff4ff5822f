package models

import "time"

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
	StatusCancelled BookingStatus = "cancelled"
)

// WhatsappStatus tracks whether the confirmation message reached the customer.
type WhatsappStatus string

const (
	WhatsappPending WhatsappStatus = "pending"
	WhatsappSent    WhatsappStatus = "sent"
)

// transitions is the only place the status graph is defined. Every mutation
// path must consult CanTransitionTo; cancelled/completed/no_show are sinks.
var transitions = map[BookingStatus][]BookingStatus{
	StatusBooked:    {StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the booking can still be cancelled.
func (s BookingStatus) IsCancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// Booking represents a reservation record.
type Booking struct {
	ID             string         `bson:"id" json:"id"`
	CustomerID     string         `bson:"customer_id" json:"customer_id"`
	ProviderID     string         `bson:"provider_id" json:"provider_id"`
	ServiceID      string         `bson:"service_id" json:"service_id"`
	SlotStart      time.Time      `bson:"slot_start" json:"slot_start"`
	DateKey        string         `bson:"date_key" json:"date_key"`
	Status         BookingStatus  `bson:"status" json:"status"`
	WhatsappStatus WhatsappStatus `bson:"whatsapp_status" json:"whatsapp_status"`
	CancelCodeHash string         `bson:"cancel_code_hash" json:"-"` // keyed digest, never the raw secret
	CancelledAt    *time.Time     `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updated_at"`
}

// BookingResult is returned to the caller of a successful Create. The raw
// cancel code exists only here and in the confirmation message.
type BookingResult struct {
	BookingID  string `json:"booking_id"`
	CancelCode string `json:"cancel_code"`
}
