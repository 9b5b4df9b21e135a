package controllers

import (
	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
	"gymbuddy_go/services"
)

// AssignmentController manages which trainer is responsible for which
// trainee. Staff only.
type AssignmentController struct{}

// CreateAssignment links a trainer to a trainee.
func (ac *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	var body struct {
		TrainerID uint   `json:"trainer_id"`
		TraineeID uint   `json:"trainee_id"`
		Notes     string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.TrainerID == 0 || body.TraineeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "trainer_id and trainee_id are required",
		})
	}

	var trainer models.User
	if err := database.DB.First(&trainer, body.TrainerID).Error; err != nil || !trainer.IsTrainer() {
		return respondServiceError(c, services.NewNotFoundError("trainer not found"))
	}
	var trainee models.User
	if err := database.DB.First(&trainee, body.TraineeID).Error; err != nil || !trainee.IsTrainee() {
		return respondServiceError(c, services.NewNotFoundError("trainee not found"))
	}

	var existing models.TrainerTraineeAssignment
	err := database.DB.Where("trainer_id = ? AND trainee_id = ? AND is_active = ?",
		body.TrainerID, body.TraineeID, true).First(&existing).Error
	if err == nil {
		return respondServiceError(c, services.NewConflictError(services.CodeDuplicateSlot,
			"assignment already exists"))
	}

	assignment := models.TrainerTraineeAssignment{
		TrainerID: body.TrainerID,
		TraineeID: body.TraineeID,
		IsActive:  true,
		Notes:     body.Notes,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create assignment",
		})
	}

	database.DB.Preload("Trainer").Preload("Trainee").First(&assignment, assignment.ID)
	middleware.LogActivity(c, "CREATE", "assignments", assignment.ID, assignment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// GetAssignments lists assignments; trainers and trainees see their own.
func (ac *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	query := database.DB.Model(&models.TrainerTraineeAssignment{})
	switch {
	case user.IsTrainer():
		query = query.Where("trainer_id = ?", user.ID)
	case user.IsTrainee():
		query = query.Where("trainee_id = ?", user.ID)
	}
	if trainerID := c.Query("trainer_id"); trainerID != "" && user.IsStaffOrAbove() {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if c.Query("active_only") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var assignments []models.TrainerTraineeAssignment
	err = query.Preload("Trainer").Preload("Trainee").
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch assignments",
		})
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// DeactivateAssignment ends an assignment without deleting its history.
func (ac *AssignmentController) DeactivateAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var assignment models.TrainerTraineeAssignment
	if err := database.DB.First(&assignment, id).Error; err != nil {
		return respondServiceError(c, services.NewNotFoundError("assignment not found"))
	}

	if err := database.DB.Model(&assignment).Update("is_active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate assignment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "assignments", assignment.ID, fiber.Map{
		"action": "deactivate",
	})

	return c.JSON(fiber.Map{
		"message":    "Assignment deactivated successfully",
		"assignment": assignment,
	})
}
