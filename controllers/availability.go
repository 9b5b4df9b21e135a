package controllers

import (
	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
	"gymbuddy_go/services"
	"gymbuddy_go/utils"
)

type AvailabilityController struct{}

type availabilityRequest struct {
	TrainerID   uint   `json:"trainer_id"`
	DayOfWeek   *int   `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable *bool  `json:"is_available"`
}

// validateSlotTimes checks day-of-week range and start < end.
func validateSlotTimes(dayOfWeek int, startTime, endTime string) *services.ServiceError {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return services.NewValidationError(services.CodeInvalidTimeRange, "day_of_week must be between 0 and 6")
	}
	start, err := utils.MinutesOfDay(startTime)
	if err != nil {
		return services.NewValidationError(services.CodeInvalidTimeRange, "invalid start_time")
	}
	end, err := utils.MinutesOfDay(endTime)
	if err != nil {
		return services.NewValidationError(services.CodeInvalidTimeRange, "invalid end_time")
	}
	if start >= end {
		return services.NewValidationError(services.CodeInvalidTimeRange, "start time must be before end time")
	}
	return nil
}

// resolveTrainer decides whose slots a request targets. Trainers always
// act on their own; staff may pass trainer_id.
func resolveTrainer(user *models.User, requested uint) (uint, *services.ServiceError) {
	if user.IsTrainer() {
		return user.ID, nil
	}
	if user.IsStaffOrAbove() {
		if requested == 0 {
			return 0, services.NewValidationError(services.CodeInvalidTimeRange, "trainer_id is required")
		}
		return requested, nil
	}
	return 0, services.NewPermissionError(services.CodeNotOwner, "only trainers manage availability")
}

// CreateAvailability adds a weekly slot for the owning trainer.
func (ac *AvailabilityController) CreateAvailability(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.DayOfWeek == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "day_of_week is required",
		})
	}

	trainerID, serr := resolveTrainer(user, req.TrainerID)
	if serr != nil {
		return respondServiceError(c, serr)
	}
	if serr := validateSlotTimes(*req.DayOfWeek, req.StartTime, req.EndTime); serr != nil {
		return respondServiceError(c, serr)
	}

	// Identical tuples are rejected, not silently merged
	var existing models.TrainerAvailability
	err = database.DB.Where("trainer_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ?",
		trainerID, *req.DayOfWeek, req.StartTime, req.EndTime).
		First(&existing).Error
	if err == nil {
		return respondServiceError(c, services.NewConflictError(services.CodeDuplicateSlot,
			"an identical availability slot already exists"))
	}

	slot := models.TrainerAvailability{
		TrainerID:   trainerID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := database.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create availability slot",
		})
	}

	middleware.LogActivity(c, "CREATE", "availability", slot.ID, slot)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Availability slot created successfully",
		"availability": slot,
	})
}

// GetAvailability lists a trainer's slots ordered by day and start time.
func (ac *AvailabilityController) GetAvailability(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	query := database.DB.Model(&models.TrainerAvailability{})

	if trainerID := c.Query("trainer_id"); trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	} else if user.IsTrainer() {
		query = query.Where("trainer_id = ?", user.ID)
	}

	if dayOfWeek := c.Query("day_of_week"); dayOfWeek != "" {
		query = query.Where("day_of_week = ?", dayOfWeek)
	}
	if c.QueryBool("active_only") {
		query = query.Where("is_available = ?", true)
	}

	var slots []models.TrainerAvailability
	if err := query.Order("day_of_week ASC, start_time ASC").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch availability",
		})
	}

	return c.JSON(fiber.Map{
		"availability": slots,
		"total":        len(slots),
	})
}

// UpdateAvailability edits a slot. Only the owning trainer may mutate;
// already-booked sessions are untouched by availability changes.
func (ac *AvailabilityController) UpdateAvailability(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var slot models.TrainerAvailability
	if err := database.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability slot not found",
		})
	}

	if slot.TrainerID != user.ID && !user.IsStaffOrAbove() {
		return respondServiceError(c, services.NewPermissionError(services.CodeNotOwner,
			"only the owning trainer may modify this slot"))
	}

	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	dayOfWeek := slot.DayOfWeek
	if req.DayOfWeek != nil {
		dayOfWeek = *req.DayOfWeek
	}
	startTime := slot.StartTime
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	endTime := slot.EndTime
	if req.EndTime != "" {
		endTime = req.EndTime
	}

	if serr := validateSlotTimes(dayOfWeek, startTime, endTime); serr != nil {
		return respondServiceError(c, serr)
	}

	updates := map[string]interface{}{
		"day_of_week": dayOfWeek,
		"start_time":  startTime,
		"end_time":    endTime,
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if err := database.DB.Model(&slot).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update availability slot",
		})
	}

	middleware.LogActivity(c, "UPDATE", "availability", slot.ID, updates)

	database.DB.First(&slot, slot.ID)
	return c.JSON(fiber.Map{
		"message":      "Availability slot updated successfully",
		"availability": slot,
	})
}

// DeleteAvailability removes a slot. Historical sessions booked into the
// slot are not invalidated.
func (ac *AvailabilityController) DeleteAvailability(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var slot models.TrainerAvailability
	if err := database.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability slot not found",
		})
	}

	if slot.TrainerID != user.ID && !user.IsStaffOrAbove() {
		return respondServiceError(c, services.NewPermissionError(services.CodeNotOwner,
			"only the owning trainer may delete this slot"))
	}

	if err := database.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete availability slot",
		})
	}

	middleware.LogActivity(c, "DELETE", "availability", slot.ID, slot)

	return c.JSON(fiber.Map{
		"message": "Availability slot deleted successfully",
	})
}
