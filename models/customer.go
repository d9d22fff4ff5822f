package models

import (
	"strings"
	"time"
)

// CustomerIdentity holds contact fields. Phone is always E.164.
type CustomerIdentity struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Phone     string `bson:"phone" json:"phone"`
}

// CustomerProfile holds optional personal details.
type CustomerProfile struct {
	Birthday string `bson:"birthday,omitempty" json:"birthday,omitempty"` // "YYYY-MM-DD" or "MM-DD"
}

// CustomerConsent records opt-ins for non-transactional messages.
type CustomerConsent struct {
	MarketingOptIn bool `bson:"marketing_opt_in" json:"marketing_opt_in"`
}

// CustomerStats is maintained by the reservation coordinator's transactions.
type CustomerStats struct {
	TotalBookings  int       `bson:"total_bookings" json:"total_bookings"`
	TotalCompleted int       `bson:"total_completed" json:"total_completed"`
	NoShowCount    int       `bson:"no_show_count" json:"no_show_count"`
	LastBookingAt  time.Time `bson:"last_booking_at" json:"last_booking_at"`
}

// Customer is one record per unique phone; its ID is derived from the
// normalized phone number so the upsert is naturally idempotent.
type Customer struct {
	ID        string           `bson:"id" json:"id"`
	Identity  CustomerIdentity `bson:"identity" json:"identity"`
	Profile   CustomerProfile  `bson:"profile" json:"profile"`
	Consent   CustomerConsent  `bson:"consent" json:"consent"`
	Stats     CustomerStats    `bson:"stats" json:"stats"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// MergeIdentity refreshes stored identity fields from new input while
// preserving an existing full last name over a short "initial" placeholder
// like "S" or "S.".
func MergeIdentity(existing, incoming CustomerIdentity) CustomerIdentity {
	merged := incoming
	if isInitial(incoming.LastName) && len(existing.LastName) > len(strings.TrimSuffix(incoming.LastName, ".")) {
		merged.LastName = existing.LastName
	}
	if incoming.FirstName == "" {
		merged.FirstName = existing.FirstName
	}
	return merged
}

func isInitial(name string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), ".")
	return len(trimmed) <= 1
}
