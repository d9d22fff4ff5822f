package reservation

import (
	"fmt"
	"time"

	"reserva/models"
)

// ParseSlotLocal parses a slot timestamp as shop-local wall time. Accepts
// RFC3339 (converted into loc) or the bare "2006-01-02T15:04" form.
func ParseSlotLocal(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	if err != nil {
		return time.Time{}, NewValidationError(fmt.Sprintf("invalid slot time %q", value))
	}
	return t, nil
}

// parseHHMM converts "HH:MM" to minutes from midnight.
func parseHHMM(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return h*60 + m, nil
}

// ValidateSlotTime checks a slot start against the grid and the effective
// day schedule. It never touches storage; all failures are validation
// errors the caller can correct.
func ValidateSlotTime(slotStart time.Time, sched models.DaySchedule) error {
	if !AlignedToGrid(slotStart) {
		return NewValidationError("slot time must align to the 30-minute grid")
	}
	if !sched.Active {
		return NewValidationError("provider does not work on this day")
	}

	open, err := parseHHMM(sched.Start)
	if err != nil {
		return NewValidationError(err.Error())
	}
	close, err := parseHHMM(sched.End)
	if err != nil {
		return NewValidationError(err.Error())
	}

	startMin := slotStart.Hour()*60 + slotStart.Minute()
	endMin := startMin + int(SlotGranularity.Minutes())
	if startMin < open || endMin > close {
		return NewValidationError(fmt.Sprintf(
			"slot %02d:%02d is outside working hours %s-%s",
			slotStart.Hour(), slotStart.Minute(), sched.Start, sched.End))
	}

	for _, brk := range sched.Breaks {
		bStart, err := parseHHMM(brk.Start)
		if err != nil {
			return NewValidationError(err.Error())
		}
		bEnd, err := parseHHMM(brk.End)
		if err != nil {
			return NewValidationError(err.Error())
		}
		if startMin < bEnd && endMin > bStart {
			return NewValidationError(fmt.Sprintf(
				"slot %02d:%02d falls inside a break window %s-%s",
				slotStart.Hour(), slotStart.Minute(), brk.Start, brk.End))
		}
	}

	return nil
}
