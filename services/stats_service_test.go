package services

import (
	"testing"

	"gymbuddy_go/models"
)

func TestUtilizationRate(t *testing.T) {
	tests := []struct {
		name     string
		sessions int
		slots    int64
		want     float64
	}{
		{"no slots means zero", 10, 0, 0},
		{"half booked", 10, 5, 50},
		{"fully booked", 20, 5, 100},
		{"overbooked capped at 100", 40, 5, 100},
		{"no sessions", 0, 5, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := utilizationRate(tc.sessions, tc.slots); got != tc.want {
				t.Fatalf("utilizationRate(%d, %d) = %v, want %v", tc.sessions, tc.slots, got, tc.want)
			}
		})
	}
}

func TestSessionMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"one hour", "09:00", "10:00", 60},
		{"75 minutes", "09:00", "10:15", 75},
		{"inverted yields zero", "10:00", "09:00", 0},
		{"unparseable yields zero", "morning", "10:00", 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := models.TrainingSession{StartTime: tc.start, EndTime: tc.end}
			if got := sessionMinutes(&s); got != tc.want {
				t.Fatalf("sessionMinutes = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := round2(2.3456); got != 2.35 {
		t.Fatalf("round2(2.3456) = %v, want 2.35", got)
	}
	if got := round2(2.0); got != 2.0 {
		t.Fatalf("round2(2.0) = %v, want 2.0", got)
	}
}
