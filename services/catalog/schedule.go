package catalog

import (
	"strings"
	"time"

	"reserva/models"
)

// Default shop hours, applied when a provider has no weekly schedule:
// 09:00-18:30 local, closed Sunday (or the provider's configured day off).
const (
	DefaultOpen  = "09:00"
	DefaultClose = "18:30"
)

// ResolveDaySchedule returns the effective working hours for a provider on
// the given weekday. Pure; safe to call without storage access.
func ResolveDaySchedule(provider *models.Provider, weekday time.Weekday) models.DaySchedule {
	day := strings.ToLower(weekday.String())

	if provider.Schedule != nil {
		sched, ok := (*provider.Schedule)[day]
		if !ok {
			return models.DaySchedule{Active: false}
		}
		return sched
	}

	dayOff := provider.DayOff
	if dayOff == "" {
		dayOff = "sunday"
	}
	if day == strings.ToLower(dayOff) {
		return models.DaySchedule{Active: false}
	}
	return models.DaySchedule{Active: true, Start: DefaultOpen, End: DefaultClose}
}
