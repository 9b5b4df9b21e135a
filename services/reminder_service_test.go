package services

import (
	"testing"
	"time"

	"gymbuddy_go/models"
)

func TestValidateReminderTime(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		reminder time.Time
		wantErr  bool
	}{
		{
			name:     "one hour before",
			reminder: start.Add(-time.Hour),
		},
		{
			name:     "one minute before",
			reminder: start.Add(-time.Minute),
		},
		{
			name:     "exactly at start rejected",
			reminder: start,
			wantErr:  true,
		},
		{
			name:     "after start rejected",
			reminder: start.Add(10 * time.Minute),
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			serr := validateReminderTime(tc.reminder, start)
			if tc.wantErr {
				if serr == nil {
					t.Fatalf("expected error, got nil")
				}
				if serr.Code != CodeReminderAfterSession {
					t.Fatalf("expected code %s, got %s", CodeReminderAfterSession, serr.Code)
				}
				return
			}
			if serr != nil {
				t.Fatalf("unexpected error: %v", serr)
			}
		})
	}
}

func TestIsValidReminderType(t *testing.T) {
	valid := []string{
		models.ReminderTypeEmail,
		models.ReminderTypeSMS,
		models.ReminderTypePush,
	}
	for _, rt := range valid {
		if !IsValidReminderType(rt) {
			t.Errorf("expected %s to be valid", rt)
		}
	}
	if IsValidReminderType("carrier_pigeon") {
		t.Fatalf("unknown reminder type accepted")
	}
}
