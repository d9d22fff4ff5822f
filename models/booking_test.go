package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusBooked, StatusConfirmed, true},
		{StatusBooked, StatusCompleted, true},
		{StatusBooked, StatusNoShow, true},
		{StatusBooked, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusBooked, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
		{StatusCancelled, StatusBooked, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminalStatesAreSinks(t *testing.T) {
	all := []BookingStatus{StatusBooked, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled}
	for _, terminal := range []BookingStatus{StatusCompleted, StatusNoShow, StatusCancelled} {
		for _, next := range all {
			if terminal.CanTransitionTo(next) {
				t.Errorf("terminal state %s must not allow transition to %s", terminal, next)
			}
		}
	}
}

func TestIsCancellable(t *testing.T) {
	if !StatusBooked.IsCancellable() || !StatusConfirmed.IsCancellable() {
		t.Error("booked and confirmed must be cancellable")
	}
	for _, s := range []BookingStatus{StatusCompleted, StatusNoShow, StatusCancelled} {
		if s.IsCancellable() {
			t.Errorf("%s must not be cancellable", s)
		}
	}
}
