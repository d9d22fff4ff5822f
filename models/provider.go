package models

import "time"

// Provider is one service professional with an independent calendar.
// Schedule is optional; when nil the default shop hours apply, closed on
// DayOff (or Sunday when DayOff is empty).
type Provider struct {
	ID        string          `bson:"id" json:"id"`
	Name      string          `bson:"name" json:"name"`
	Active    bool            `bson:"active" json:"active"`
	DayOff    string          `bson:"day_off,omitempty" json:"day_off,omitempty"` // lowercase weekday name
	Schedule  *WeeklySchedule `bson:"schedule,omitempty" json:"schedule,omitempty"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}
