package models

import (
	"testing"
	"time"
)

func TestAttendanceDerivedFields(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)

	open := Attendance{TraineeID: 1, CheckIn: checkIn}
	if !open.IsCheckedIn() {
		t.Fatalf("record without check-out should be open")
	}
	if got := open.DurationMinutes(); got != 0 {
		t.Fatalf("open record duration = %d, want 0", got)
	}

	checkOut := checkIn.Add(75 * time.Minute)
	closed := Attendance{TraineeID: 1, CheckIn: checkIn, CheckOut: &checkOut}
	if closed.IsCheckedIn() {
		t.Fatalf("record with check-out should be closed")
	}
	if got := closed.DurationMinutes(); got != 75 {
		t.Fatalf("duration = %d, want 75", got)
	}
}

func TestSessionIsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{SessionStatusScheduled, false},
		{SessionStatusConfirmed, false},
		{SessionStatusInProgress, false},
		{SessionStatusCompleted, true},
		{SessionStatusCancelled, true},
		{SessionStatusNoShow, true},
	}

	for _, tc := range tests {
		s := TrainingSession{Status: tc.status}
		if got := s.IsTerminal(); got != tc.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestCanManageSession(t *testing.T) {
	session := &TrainingSession{TrainerID: 10, TraineeID: 20}

	mkUser := func(id uint, role string) *User {
		u := &User{Role: role}
		u.ID = id
		return u
	}

	tests := []struct {
		name    string
		user    *User
		allowed bool
	}{
		{"trainer participant", mkUser(10, RoleTrainer), true},
		{"trainee participant", mkUser(20, RoleTrainee), true},
		{"other trainer", mkUser(11, RoleTrainer), false},
		{"other trainee", mkUser(21, RoleTrainee), false},
		{"manager", mkUser(99, RoleManager), true},
		{"owner", mkUser(98, RoleOwner), true},
		{"super admin", mkUser(97, RoleSuperAdmin), true},
		{"nil user", nil, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CanManageSession(tc.user, session); got != tc.allowed {
				t.Fatalf("CanManageSession = %v, want %v", got, tc.allowed)
			}
		})
	}

	if CanManageSession(mkUser(1, RoleManager), nil) {
		t.Fatalf("nil session should never be manageable")
	}
}

func TestIsStaffOrAbove(t *testing.T) {
	staff := []string{RoleSuperAdmin, RoleOwner, RoleManager}
	nonStaff := []string{RoleTrainer, RoleTrainee}

	for _, role := range staff {
		u := User{Role: role}
		if !u.IsStaffOrAbove() {
			t.Errorf("expected %s to be staff", role)
		}
	}
	for _, role := range nonStaff {
		u := User{Role: role}
		if u.IsStaffOrAbove() {
			t.Errorf("expected %s not to be staff", role)
		}
	}
}
