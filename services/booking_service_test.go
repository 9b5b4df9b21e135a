package services

import (
	"testing"
	"time"

	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

func mkRequest(date time.Time, start, end string) BookSessionRequest {
	return BookSessionRequest{
		TrainerID:   1,
		TraineeID:   2,
		SessionDate: date,
		StartTime:   start,
		EndTime:     end,
	}
}

func TestValidateWindow(t *testing.T) {
	today := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		req     BookSessionRequest
		wantErr string // expected error code, empty for success
	}{
		{
			name: "valid future window",
			req:  mkRequest(today.AddDate(0, 0, 1), "09:00", "10:00"),
		},
		{
			name: "today is allowed",
			req:  mkRequest(today, "09:00", "10:00"),
		},
		{
			name:    "past date rejected",
			req:     mkRequest(today.AddDate(0, 0, -1), "09:00", "10:00"),
			wantErr: CodePastDate,
		},
		{
			name:    "inverted times rejected",
			req:     mkRequest(today, "11:00", "10:00"),
			wantErr: CodeInvalidTimeRange,
		},
		{
			name:    "zero-length window rejected",
			req:     mkRequest(today, "10:00", "10:00"),
			wantErr: CodeInvalidTimeRange,
		},
		{
			name:    "unparseable time rejected",
			req:     mkRequest(today, "morning", "10:00"),
			wantErr: CodeInvalidTimeRange,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, serr := validateWindow(tc.req, today)
			if tc.wantErr == "" {
				if serr != nil {
					t.Fatalf("unexpected error: %v", serr)
				}
				return
			}
			if serr == nil {
				t.Fatalf("expected error code %s, got nil", tc.wantErr)
			}
			if serr.Code != tc.wantErr {
				t.Fatalf("expected error code %s, got %s", tc.wantErr, serr.Code)
			}
		})
	}
}

func TestFindConflict(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	mkSession := func(id uint, start, end, status string) models.TrainingSession {
		s := models.TrainingSession{
			TrainerID:   1,
			TraineeID:   2,
			SessionDate: date,
			StartTime:   start,
			EndTime:     end,
			Status:      status,
		}
		s.ID = id
		return s
	}

	existing := []models.TrainingSession{
		mkSession(1, "09:00", "10:00", models.SessionStatusScheduled),
		mkSession(2, "10:00", "11:00", models.SessionStatusConfirmed),
		mkSession(3, "13:00", "14:00", models.SessionStatusCancelled),
	}

	window := func(start, end string) utils.SessionWindow {
		w, err := utils.NewSessionWindow(date, start, end)
		if err != nil {
			t.Fatalf("bad window: %v", err)
		}
		return w
	}

	t.Run("overlap with active session", func(t *testing.T) {
		if got := findConflict(existing, window("09:30", "10:30"), 0); got == nil || got.ID != 1 {
			t.Fatalf("expected conflict with session 1, got %+v", got)
		}
	})

	t.Run("back to back is free", func(t *testing.T) {
		if got := findConflict(existing, window("11:00", "12:00"), 0); got != nil {
			t.Fatalf("expected no conflict, got session %d", got.ID)
		}
	})

	t.Run("cancelled sessions do not block", func(t *testing.T) {
		if got := findConflict(existing, window("13:00", "14:00"), 0); got != nil {
			t.Fatalf("expected no conflict against cancelled session, got %d", got.ID)
		}
	})

	t.Run("update excludes its own session", func(t *testing.T) {
		if got := findConflict(existing, window("09:00", "10:00"), 1); got != nil {
			t.Fatalf("expected no conflict when excluding self, got %d", got.ID)
		}
	})

	t.Run("update still conflicts with others", func(t *testing.T) {
		if got := findConflict(existing, window("09:30", "10:30"), 2); got == nil || got.ID != 1 {
			t.Fatalf("expected conflict with session 1, got %+v", got)
		}
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{models.SessionStatusScheduled, models.SessionStatusConfirmed, true},
		{models.SessionStatusScheduled, models.SessionStatusInProgress, true},
		{models.SessionStatusScheduled, models.SessionStatusCompleted, false},
		{models.SessionStatusConfirmed, models.SessionStatusCompleted, true},
		{models.SessionStatusConfirmed, models.SessionStatusScheduled, false},
		{models.SessionStatusInProgress, models.SessionStatusCompleted, true},
		{models.SessionStatusInProgress, models.SessionStatusConfirmed, false},
		// terminal statuses have no exits
		{models.SessionStatusCompleted, models.SessionStatusScheduled, false},
		{models.SessionStatusCompleted, models.SessionStatusCancelled, false},
		{models.SessionStatusCancelled, models.SessionStatusScheduled, false},
		{models.SessionStatusNoShow, models.SessionStatusCompleted, false},
	}

	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestIsActiveStatus(t *testing.T) {
	active := []string{
		models.SessionStatusScheduled,
		models.SessionStatusConfirmed,
		models.SessionStatusInProgress,
	}
	inactive := []string{
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
		"bogus",
	}

	for _, s := range active {
		if !IsActiveStatus(s) {
			t.Errorf("expected %s to be active", s)
		}
	}
	for _, s := range inactive {
		if IsActiveStatus(s) {
			t.Errorf("expected %s to be inactive", s)
		}
	}
}

func TestIsValidSessionStatus(t *testing.T) {
	if !IsValidSessionStatus(models.SessionStatusNoShow) {
		t.Fatalf("no_show should be a known status")
	}
	if IsValidSessionStatus("paused") {
		t.Fatalf("paused is not a known status")
	}
}
