package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SessionWindow is the single place where a session date and its "HH:MM"
// start/end times are combined into datetimes. Overlap checks and display
// code must both go through this type so the combination logic cannot
// diverge.
type SessionWindow struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// ParseHourMinute extracts hour and minute from an "HH:MM" style value.
// Accepts plain times ("08:30"), times with seconds ("08:30:00") and full
// datetimes ("2006-01-02 08:30:00", RFC3339).
func ParseHourMinute(value string) (int, int, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, 0, fmt.Errorf("empty time value")
	}

	// Full datetime forms first
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}

	s = strings.TrimSuffix(s, "Z")
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid time value: %s", value)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in time value: %s", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time value: %s", value)
	}
	return h, m, nil
}

// MinutesOfDay converts an "HH:MM" value to minutes since midnight.
func MinutesOfDay(value string) (int, error) {
	h, m, err := ParseHourMinute(value)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// NewSessionWindow validates the times and builds a window. The only
// structural requirement is start < end.
func NewSessionWindow(date time.Time, startTime, endTime string) (SessionWindow, error) {
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return SessionWindow{}, err
	}
	end, err := MinutesOfDay(endTime)
	if err != nil {
		return SessionWindow{}, err
	}
	if start >= end {
		return SessionWindow{}, fmt.Errorf("start time must be before end time")
	}
	return SessionWindow{Date: date, StartTime: startTime, EndTime: endTime}, nil
}

// StartAt returns the combined start datetime of the window.
func (w SessionWindow) StartAt() time.Time {
	return CombineDateTime(w.Date, w.StartTime)
}

// EndAt returns the combined end datetime of the window.
func (w SessionWindow) EndAt() time.Time {
	return CombineDateTime(w.Date, w.EndTime)
}

// Overlaps applies half-open interval semantics: [s1,e1) and [s2,e2)
// overlap iff s1 < e2 && s2 < e1. Windows on different dates never
// overlap; touching endpoints do not overlap.
func (w SessionWindow) Overlaps(other SessionWindow) bool {
	if !SameDate(w.Date, other.Date) {
		return false
	}
	s1, err1 := MinutesOfDay(w.StartTime)
	e1, err2 := MinutesOfDay(w.EndTime)
	s2, err3 := MinutesOfDay(other.StartTime)
	e2, err4 := MinutesOfDay(other.EndTime)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return s1 < e2 && s2 < e1
}

// CombineDateTime merges a calendar date with an "HH:MM" value into a
// single wall-clock datetime. Unparseable times fall back to midnight.
func CombineDateTime(date time.Time, hhmm string) time.Time {
	h, m, err := ParseHourMinute(hhmm)
	if err != nil {
		h, m = 0, 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

// SameDate reports whether two datetimes fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DateOnly truncates a datetime to midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
