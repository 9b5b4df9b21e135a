package controllers

import (
	"testing"
	"time"

	"gymbuddy_go/models"
)

func TestBuildMonthGridShape(t *testing.T) {
	tests := []struct {
		name        string
		year        int
		month       time.Month
		wantWeeks   int
		wantLeading int // placeholder cells in first week
		wantDays    int
	}{
		// March 2026 starts on a Sunday and has 31 days
		{"march 2026", 2026, time.March, 5, 0, 31},
		// February 2026 starts on a Sunday and has 28 days: exactly 4 weeks
		{"february 2026", 2026, time.February, 4, 0, 28},
		// August 2026 starts on a Saturday
		{"august 2026", 2026, time.August, 6, 6, 31},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			weeks := buildMonthGrid(tc.year, tc.month, nil)

			if len(weeks) != tc.wantWeeks {
				t.Fatalf("weeks = %d, want %d", len(weeks), tc.wantWeeks)
			}
			days := 0
			for wi, week := range weeks {
				if len(week) != 7 {
					t.Fatalf("week %d has %d cells, want 7", wi, len(week))
				}
				for _, cell := range week {
					if cell.Day != 0 {
						days++
					}
				}
			}
			if days != tc.wantDays {
				t.Fatalf("populated days = %d, want %d", days, tc.wantDays)
			}

			leading := 0
			for _, cell := range weeks[0] {
				if cell.Day == 0 {
					leading++
				} else {
					break
				}
			}
			if leading != tc.wantLeading {
				t.Fatalf("leading placeholders = %d, want %d", leading, tc.wantLeading)
			}
		})
	}
}

func TestBuildMonthGridOrdering(t *testing.T) {
	weeks := buildMonthGrid(2026, time.March, nil)

	prev := 0
	for _, week := range weeks {
		for _, cell := range week {
			if cell.Day == 0 {
				continue
			}
			if cell.Day != prev+1 {
				t.Fatalf("day %d follows %d, want %d", cell.Day, prev, prev+1)
			}
			prev = cell.Day
		}
	}
	if prev != 31 {
		t.Fatalf("last day = %d, want 31", prev)
	}
}

func TestBuildMonthGridPlacesSessions(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	s1 := models.TrainingSession{SessionDate: date, StartTime: "09:00", EndTime: "10:00"}
	s1.ID = 1
	s2 := models.TrainingSession{SessionDate: date, StartTime: "10:00", EndTime: "11:00"}
	s2.ID = 2
	otherMonth := models.TrainingSession{
		SessionDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local),
		StartTime:   "09:00", EndTime: "10:00",
	}
	otherMonth.ID = 3

	weeks := buildMonthGrid(2026, time.March, []models.TrainingSession{s1, s2, otherMonth})

	var found *CalendarDay
	for wi := range weeks {
		for ci := range weeks[wi] {
			cell := &weeks[wi][ci]
			if cell.Day == 10 {
				found = cell
			} else if len(cell.Sessions) != 0 {
				t.Fatalf("day %d unexpectedly has sessions", cell.Day)
			}
		}
	}
	if found == nil {
		t.Fatalf("day 10 missing from grid")
	}
	if len(found.Sessions) != 2 {
		t.Fatalf("day 10 has %d sessions, want 2", len(found.Sessions))
	}
	if found.Date != "2026-03-10" {
		t.Fatalf("day 10 date = %s", found.Date)
	}
}
