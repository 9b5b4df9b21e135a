package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
	"gymbuddy_go/services"
	"gymbuddy_go/utils"
)

type SessionController struct {
	booking *services.BookingService
}

func NewSessionController() *SessionController {
	return &SessionController{booking: services.NewBookingService()}
}

type bookSessionBody struct {
	TrainerID   uint   `json:"trainer_id"`
	TraineeID   uint   `json:"trainee_id"`
	SessionDate string `json:"session_date"` // "2006-01-02"
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Notes       string `json:"notes"`
}

func (b bookSessionBody) toRequest() (services.BookSessionRequest, error) {
	req := services.BookSessionRequest{
		TrainerID: b.TrainerID,
		TraineeID: b.TraineeID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Notes:     b.Notes,
	}
	if b.SessionDate != "" {
		date, err := time.ParseInLocation("2006-01-02", b.SessionDate, time.Local)
		if err != nil {
			return req, err
		}
		req.SessionDate = date
	}
	return req, nil
}

// BookSession creates a new training session.
func (sc *SessionController) BookSession(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var body bookSessionBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req, err := body.toRequest()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_date, expected YYYY-MM-DD",
		})
	}

	// Trainees book for themselves; trainers book their own sessions
	if user.IsTrainee() {
		req.TraineeID = user.ID
	}
	if user.IsTrainer() {
		req.TrainerID = user.ID
	}
	if req.TrainerID == 0 || req.TraineeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "trainer_id and trainee_id are required",
		})
	}

	session, err := sc.booking.BookSession(req, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "sessions", session.ID, session)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session booked successfully",
		"session": session,
	})
}

// GetSessions lists sessions visible to the caller: staff see all, other
// roles see sessions they participate in.
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := database.DB.Model(&models.TrainingSession{})

	if !user.IsStaffOrAbove() {
		query = query.Where("trainer_id = ? OR trainee_id = ?", user.ID, user.ID)
	}
	if trainerID := c.Query("trainer_id"); trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if traineeID := c.Query("trainee_id"); traineeID != "" {
		query = query.Where("trainee_id = ?", traineeID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("session_date = ?", date)
	}

	var total int64
	query.Count(&total)

	var sessions []models.TrainingSession
	err = query.Preload("Trainer").Preload("Trainee").
		Order("session_date ASC, start_time ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetSession returns one session the caller may see.
func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	session, err := sc.booking.GetSession(id, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

// UpdateSession reschedules or edits a session, re-running the full
// validation and conflict pipeline.
func (sc *SessionController) UpdateSession(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var body bookSessionBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req, err := body.toRequest()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_date, expected YYYY-MM-DD",
		})
	}

	session, err := sc.booking.UpdateSession(id, req, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "sessions", session.ID, body)

	return c.JSON(fiber.Map{
		"message": "Session updated successfully",
		"session": session,
	})
}

// CancelSession cancels a session with a reason.
func (sc *SessionController) CancelSession(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "reason is required",
		})
	}

	session, err := sc.booking.CancelSession(id, user, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "sessions", session.ID, fiber.Map{
		"action": "cancel",
		"reason": body.Reason,
	})

	return c.JSON(fiber.Map{
		"message": "Session cancelled successfully",
		"session": session,
	})
}

// UpdateSessionStatus moves a session along the status state machine.
func (sc *SessionController) UpdateSessionStatus(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := sc.booking.UpdateStatus(id, body.Status, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "sessions", session.ID, fiber.Map{
		"action":     "status_change",
		"new_status": body.Status,
	})

	return c.JSON(fiber.Map{
		"message": "Session status updated successfully",
		"session": session,
	})
}

// GetTrainerDaySchedule shows a trainer's booked windows for one date,
// next to their weekly slots, as a booking aid. Availability here is
// advisory; the conflict check at booking time is session-vs-session.
func (sc *SessionController) GetTrainerDaySchedule(c *fiber.Ctx) error {
	trainerID, err := parseIDParam(c, "trainer_id")
	if err != nil {
		return err
	}

	dateStr := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var sessions []models.TrainingSession
	err = database.DB.Where("trainer_id = ? AND session_date = ? AND status IN ?",
		trainerID, utils.DateOnly(date),
		[]string{models.SessionStatusScheduled, models.SessionStatusConfirmed, models.SessionStatusInProgress}).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	var slots []models.TrainerAvailability
	err = database.DB.Where("trainer_id = ? AND day_of_week = ? AND is_available = ?",
		trainerID, int(date.Weekday()), true).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch availability",
		})
	}

	return c.JSON(fiber.Map{
		"date":         dateStr,
		"sessions":     sessions,
		"availability": slots,
	})
}
