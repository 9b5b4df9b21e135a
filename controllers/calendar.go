package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
)

// CalendarController projects committed sessions onto a month grid.
// Read-only; never mutates.
type CalendarController struct{}

// CalendarDay is one cell of the grid. Placeholder cells (leading or
// trailing days outside the month) have Day == 0.
type CalendarDay struct {
	Day      int                      `json:"day"`
	Date     string                   `json:"date,omitempty"`
	Sessions []models.TrainingSession `json:"sessions,omitempty"`
}

// GetMonthView returns weeks x 7 days for the requested month, each
// populated day carrying the sessions visible to the caller.
func (cc *CalendarController) GetMonthView(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	now := time.Now()
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month"})
	}

	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	query := database.DB.Where("session_date >= ? AND session_date < ?", firstOfMonth, firstOfNext)
	if !user.IsStaffOrAbove() {
		query = query.Where("trainer_id = ? OR trainee_id = ?", user.ID, user.ID)
	}

	var sessions []models.TrainingSession
	err = query.Preload("Trainer").Preload("Trainee").
		Order("session_date ASC, start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	weeks := buildMonthGrid(year, time.Month(month), sessions)

	return c.JSON(fiber.Map{
		"year":  year,
		"month": month,
		"weeks": weeks,
	})
}

// buildMonthGrid lays the month's days into Sunday-first weeks, padding
// the first and last week with placeholder cells.
func buildMonthGrid(year int, month time.Month, sessions []models.TrainingSession) [][]CalendarDay {
	byDay := make(map[int][]models.TrainingSession)
	for _, session := range sessions {
		if session.SessionDate.Year() == year && session.SessionDate.Month() == month {
			day := session.SessionDate.Day()
			byDay[day] = append(byDay[day], session)
		}
	}

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	leading := int(firstOfMonth.Weekday()) // 0 = Sunday

	var weeks [][]CalendarDay
	week := make([]CalendarDay, 0, 7)

	for i := 0; i < leading; i++ {
		week = append(week, CalendarDay{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		week = append(week, CalendarDay{
			Day:      day,
			Date:     date.Format("2006-01-02"),
			Sessions: byDay[day],
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]CalendarDay, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, CalendarDay{})
		}
		weeks = append(weeks, week)
	}

	return weeks
}
