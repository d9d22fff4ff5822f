package models

import "time"

// SlotKind discriminates reservation locks from administrative blocks.
type SlotKind string

const (
	SlotKindBooking SlotKind = "booking"
	SlotKindBlock   SlotKind = "block"
)

// Slot is one provider time bucket. The presence of the document is the
// reservation lock: at most one Slot exists per (provider_id, slot_id).
type Slot struct {
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	SlotID     string    `bson:"slot_id" json:"slot_id"`
	SlotStart  time.Time `bson:"slot_start" json:"slot_start"`
	DateKey    string    `bson:"date_key" json:"date_key"` // provider-local calendar day, "YYYY-MM-DD"
	Kind       SlotKind  `bson:"kind" json:"kind"`
	BookingID  string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"` // set iff kind=booking
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// DayAvailability is the availability query response for one provider day.
type DayAvailability struct {
	ProviderID     string       `json:"provider_id"`
	DateKey        string       `json:"date_key"`
	BookedSlotIDs  []string     `json:"booked_slot_ids"`
	BlockedSlotIDs []string     `json:"blocked_slot_ids"`
	Schedule       *DaySchedule `json:"schedule,omitempty"`
}
