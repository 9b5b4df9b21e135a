package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/middleware"
	"gymbuddy_go/services"
)

type ReminderController struct {
	reminders *services.ReminderService
}

func NewReminderController() *ReminderController {
	return &ReminderController{reminders: services.NewReminderService()}
}

// ScheduleReminder attaches a reminder to a session. Omitting
// reminder_time defaults to one hour before the session start.
func (rc *ReminderController) ScheduleReminder(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var body struct {
		SessionID    uint       `json:"session_id"`
		ReminderType string     `json:"reminder_type"`
		ReminderTime *time.Time `json:"reminder_time"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.SessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	var reminderTime time.Time
	if body.ReminderTime != nil {
		reminderTime = *body.ReminderTime
	}

	reminder, err := rc.reminders.Schedule(body.SessionID, body.ReminderType, reminderTime, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "reminders", reminder.ID, reminder)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Reminder scheduled successfully",
		"reminder": reminder,
	})
}

// GetSessionReminders lists a session's reminders.
func (rc *ReminderController) GetSessionReminders(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reminders, err := rc.reminders.List(sessionID, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reminders": reminders,
		"total":     len(reminders),
	})
}

// GetDueReminders exposes the due query for the external notifier.
// Defaults to now; as_of accepts RFC3339.
func (rc *ReminderController) GetDueReminders(c *fiber.Ctx) error {
	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid as_of, expected RFC3339",
			})
		}
		asOf = parsed
	}

	reminders, err := rc.reminders.DueReminders(asOf)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reminders": reminders,
		"total":     len(reminders),
	})
}

// MarkReminderSent flips the sent flag; repeat calls are no-ops.
func (rc *ReminderController) MarkReminderSent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reminder, err := rc.reminders.MarkSent(id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Reminder marked as sent",
		"reminder": reminder,
	})
}

// DeleteReminder removes an unsent reminder.
func (rc *ReminderController) DeleteReminder(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := rc.reminders.Delete(id, user); err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "reminders", id, nil)

	return c.JSON(fiber.Map{
		"message": "Reminder deleted successfully",
	})
}
