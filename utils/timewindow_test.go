package utils

import (
	"testing"
	"time"
)

func TestParseHourMinute(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expHour    int
		expMinutes int
	}{
		{
			name:       "simple time",
			input:      "08:30",
			expHour:    8,
			expMinutes: 30,
		},
		{
			name:       "iso datetime",
			input:      "2026-03-01T00:00:00+07:00",
			expHour:    0,
			expMinutes: 0,
		},
		{
			name:       "mysql datetime",
			input:      "2026-03-01 13:45:00",
			expHour:    13,
			expMinutes: 45,
		},
		{
			name:       "time with trailing zone",
			input:      "09:15:00Z",
			expHour:    9,
			expMinutes: 15,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, m, err := ParseHourMinute(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h != tc.expHour || m != tc.expMinutes {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", tc.expHour, tc.expMinutes, h, m)
			}
		})
	}
}

func TestParseHourMinuteInvalid(t *testing.T) {
	if _, _, err := ParseHourMinute("invalid"); err == nil {
		t.Fatalf("expected error for invalid input")
	}
}

func TestNewSessionWindow(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	if _, err := NewSessionWindow(date, "09:00", "10:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewSessionWindow(date, "10:00", "10:00"); err == nil {
		t.Fatalf("expected error for zero-length window")
	}
	if _, err := NewSessionWindow(date, "11:00", "10:00"); err == nil {
		t.Fatalf("expected error for inverted window")
	}
	if _, err := NewSessionWindow(date, "bad", "10:00"); err == nil {
		t.Fatalf("expected error for unparseable start")
	}
}

func TestOverlaps(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	otherDate := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)

	mk := func(d time.Time, start, end string) SessionWindow {
		w, err := NewSessionWindow(d, start, end)
		if err != nil {
			t.Fatalf("bad window %s-%s: %v", start, end, err)
		}
		return w
	}

	tests := []struct {
		name    string
		a, b    SessionWindow
		overlap bool
	}{
		{
			name:    "back to back does not overlap",
			a:       mk(date, "09:00", "10:00"),
			b:       mk(date, "10:00", "11:00"),
			overlap: false,
		},
		{
			name:    "partial overlap",
			a:       mk(date, "09:00", "10:00"),
			b:       mk(date, "09:30", "10:30"),
			overlap: true,
		},
		{
			name:    "containment",
			a:       mk(date, "09:00", "12:00"),
			b:       mk(date, "10:00", "11:00"),
			overlap: true,
		},
		{
			name:    "identical windows",
			a:       mk(date, "09:00", "10:00"),
			b:       mk(date, "09:00", "10:00"),
			overlap: true,
		},
		{
			name:    "different dates never overlap",
			a:       mk(date, "09:00", "10:00"),
			b:       mk(otherDate, "09:00", "10:00"),
			overlap: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.overlap {
				t.Fatalf("Overlaps = %v, want %v", got, tc.overlap)
			}
			// symmetry
			if got := tc.b.Overlaps(tc.a); got != tc.overlap {
				t.Fatalf("reverse Overlaps = %v, want %v", got, tc.overlap)
			}
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2026, 3, 2, 17, 45, 12, 0, time.Local)
	got := CombineDateTime(date, "08:30")
	want := time.Date(2026, 3, 2, 8, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("CombineDateTime = %v, want %v", got, want)
	}
}

func TestSessionWindowEndpoints(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	w, err := NewSessionWindow(date, "09:00", "10:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.StartAt().Hour() != 9 || w.StartAt().Minute() != 0 {
		t.Fatalf("unexpected start: %v", w.StartAt())
	}
	if w.EndAt().Hour() != 10 || w.EndAt().Minute() != 15 {
		t.Fatalf("unexpected end: %v", w.EndAt())
	}
	if got := w.EndAt().Sub(w.StartAt()); got != 75*time.Minute {
		t.Fatalf("unexpected duration: %v", got)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	b := time.Date(2026, 3, 2, 0, 1, 0, 0, time.Local)
	c := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)

	if !SameDate(a, b) {
		t.Fatalf("expected same date")
	}
	if SameDate(a, c) {
		t.Fatalf("expected different dates")
	}
}
