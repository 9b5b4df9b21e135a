package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
	"gymbuddy_go/services"
)

type AttendanceController struct {
	attendance *services.AttendanceService
	stats      *services.StatsService
}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{
		attendance: services.NewAttendanceService(),
		stats:      services.NewStatsService(),
	}
}

// attendanceView decorates a record with its derived fields.
type attendanceView struct {
	models.Attendance
	DurationMinutes int  `json:"duration_minutes"`
	IsCheckedIn     bool `json:"is_checked_in"`
}

func toAttendanceView(a models.Attendance) attendanceView {
	return attendanceView{
		Attendance:      a,
		DurationMinutes: a.DurationMinutes(),
		IsCheckedIn:     a.IsCheckedIn(),
	}
}

// resolveTrainee picks the target trainee: trainees act on themselves,
// staff may pass trainee_id for front-desk check-ins.
func (atc *AttendanceController) resolveTrainee(user *models.User, requested uint) (uint, *uint, *services.ServiceError) {
	if user.IsStaffOrAbove() && requested != 0 && requested != user.ID {
		markedBy := user.ID
		return requested, &markedBy, nil
	}
	if requested != 0 && requested != user.ID && !user.IsStaffOrAbove() {
		return 0, nil, services.NewPermissionError(services.CodeNotOwner,
			"only staff may check in another trainee")
	}
	return user.ID, nil, nil
}

// CheckIn opens an attendance record.
func (atc *AttendanceController) CheckIn(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var body struct {
		TraineeID uint   `json:"trainee_id"`
		Notes     string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	traineeID, markedBy, serr := atc.resolveTrainee(user, body.TraineeID)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	record, err := atc.attendance.CheckIn(traineeID, markedBy, body.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance", record.ID, record)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Checked in successfully",
		"attendance": toAttendanceView(*record),
	})
}

// CheckOut closes the caller's (or, for staff, a given trainee's) open
// record.
func (atc *AttendanceController) CheckOut(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var body struct {
		TraineeID uint `json:"trainee_id"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	traineeID, _, serr := atc.resolveTrainee(user, body.TraineeID)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	record, err := atc.attendance.CheckOut(traineeID)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "attendance", record.ID, fiber.Map{
		"action":           "check_out",
		"duration_minutes": record.DurationMinutes(),
	})

	return c.JSON(fiber.Map{
		"message":    "Checked out successfully",
		"attendance": toAttendanceView(*record),
	})
}

// GetHistory returns the trainee's attendance records, newest first.
func (atc *AttendanceController) GetHistory(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	traineeID := user.ID
	if v := c.Query("trainee_id"); v != "" && user.IsStaffOrAbove() {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			traineeID = uint(parsed)
		}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	records, total, err := atc.attendance.History(traineeID, page, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]attendanceView, 0, len(records))
	for _, record := range records {
		views = append(views, toAttendanceView(record))
	}

	return c.JSON(fiber.Map{
		"attendance": views,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStats aggregates a trainee's visits over a period (default: the
// last 30 days).
func (atc *AttendanceController) GetStats(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	traineeID := user.ID
	if v := c.Query("trainee_id"); v != "" && user.IsStaffOrAbove() {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			traineeID = uint(parsed)
		}
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date range, expected YYYY-MM-DD",
		})
	}

	stats, err := atc.attendance.Stats(traineeID, from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"stats": stats,
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
	})
}

// GetCurrentlyCheckedIn lists open records for the staff floor view.
func (atc *AttendanceController) GetCurrentlyCheckedIn(c *fiber.Ctx) error {
	records, err := atc.attendance.CurrentlyCheckedIn()
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]attendanceView, 0, len(records))
	for _, record := range records {
		views = append(views, toAttendanceView(record))
	}

	return c.JSON(fiber.Map{
		"attendance": views,
		"total":      len(views),
	})
}

// GetHeatmap buckets check-ins by weekday and hour for staff.
func (atc *AttendanceController) GetHeatmap(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date range, expected YYYY-MM-DD",
		})
	}

	cells, err := atc.stats.AttendanceHeatmap(from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"heatmap": cells,
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
	})
}

// GetTrainerUtilization reports per-trainer load over a period.
func (atc *AttendanceController) GetTrainerUtilization(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date range, expected YYYY-MM-DD",
		})
	}

	report, err := atc.stats.TrainerUtilizationReport(from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"trainers": report,
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
	})
}

// parseDateRange reads from/to query params, defaulting to the last 30
// days ending today.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return from, to, err
		}
		to = parsed
	}
	return from, to, nil
}
