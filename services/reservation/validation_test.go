package reservation

import (
	"testing"
	"time"

	"reserva/models"
	"reserva/services/catalog"
)

func TestParseSlotLocal(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")

	t.Run("bare local form", func(t *testing.T) {
		got, err := ParseSlotLocal("2024-06-10T09:30", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 6, 10, 9, 30, 0, 0, loc)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := ParseSlotLocal("2024-06-10T12:30:00Z", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Location() != loc {
			t.Errorf("result not converted to shop location")
		}
	})

	t.Run("garbage is a validation error", func(t *testing.T) {
		_, err := ParseSlotLocal("next tuesday", loc)
		if !IsValidation(err) {
			t.Errorf("want validation error, got %v", err)
		}
	})
}

func TestValidateSlotTime(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	at := func(hour, min int) time.Time {
		return time.Date(2024, 6, 10, hour, min, 0, 0, loc) // a Monday
	}
	workday := models.DaySchedule{Active: true, Start: "09:00", End: "18:30"}

	tests := []struct {
		name    string
		slot    time.Time
		sched   models.DaySchedule
		wantErr bool
	}{
		{"opening slot ok", at(9, 0), workday, false},
		{"last slot ends at close", at(18, 0), workday, false},
		{"before opening", at(8, 30), workday, true},
		{"slot would run past close", at(18, 30), workday, true},
		{"off the grid", at(9, 15), workday, true},
		{"inactive day", at(10, 0), models.DaySchedule{Active: false}, true},
		{
			"inside a break",
			at(12, 30),
			models.DaySchedule{Active: true, Start: "09:00", End: "18:30",
				Breaks: []models.BreakWindow{{Start: "12:00", End: "13:00"}}},
			true,
		},
		{
			"overlapping break start",
			at(11, 30),
			models.DaySchedule{Active: true, Start: "09:00", End: "18:30",
				Breaks: []models.BreakWindow{{Start: "11:45", End: "13:00"}}},
			true,
		},
		{
			"slot ending exactly at break start",
			at(11, 30),
			models.DaySchedule{Active: true, Start: "09:00", End: "18:30",
				Breaks: []models.BreakWindow{{Start: "12:00", End: "13:00"}}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlotTime(tt.slot, tt.sched)
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("want validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveDayScheduleDefaults(t *testing.T) {
	provider := &models.Provider{ID: "p1", Name: "Ana", Active: true}

	sunday := catalog.ResolveDaySchedule(provider, time.Sunday)
	if sunday.Active {
		t.Error("default day off should be sunday")
	}

	monday := catalog.ResolveDaySchedule(provider, time.Monday)
	if !monday.Active || monday.Start != catalog.DefaultOpen || monday.End != catalog.DefaultClose {
		t.Errorf("monday should carry default hours, got %+v", monday)
	}
}

func TestResolveDayScheduleExplicitWeekly(t *testing.T) {
	weekly := models.WeeklySchedule{
		"tuesday": {Active: true, Start: "10:00", End: "16:00"},
	}
	provider := &models.Provider{ID: "p1", Schedule: &weekly}

	tue := catalog.ResolveDaySchedule(provider, time.Tuesday)
	if !tue.Active || tue.Start != "10:00" {
		t.Errorf("tuesday should use the configured window, got %+v", tue)
	}

	// Days absent from an explicit weekly schedule are closed.
	wed := catalog.ResolveDaySchedule(provider, time.Wednesday)
	if wed.Active {
		t.Error("wednesday is not in the weekly schedule and should be closed")
	}
}
