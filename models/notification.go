package models

// ReminderPayload is the asynq task payload for a scheduled booking reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	FireDate  string `json:"fireDate"`
}

// SweepPayload is the asynq task payload for an on-demand queue sweep.
type SweepPayload struct {
	Limit int `json:"limit"`
}
