package models

// BreakWindow is a closed interval inside a working day, "HH:MM" local.
type BreakWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DaySchedule describes one weekday of a provider's working hours.
type DaySchedule struct {
	Active bool          `bson:"active" json:"active"`
	Start  string        `bson:"start" json:"start"` // "HH:MM" local
	End    string        `bson:"end" json:"end"`
	Breaks []BreakWindow `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// WeeklySchedule maps lowercase English weekday names ("monday"...) to day
// schedules. A missing day means the provider does not work that day.
type WeeklySchedule map[string]DaySchedule
