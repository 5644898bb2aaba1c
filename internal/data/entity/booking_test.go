package entity

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestUserRoleCanDrive(t *testing.T) {
	if !RoleDriver.CanDrive() || !RoleBoth.CanDrive() {
		t.Error("driver and both must be allowed to drive")
	}
	if RolePassenger.CanDrive() {
		t.Error("passenger must not be allowed to drive")
	}
}
