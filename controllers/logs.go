package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/services"
)

// LogController exposes the activity trail and archive inventory to
// staff.
type LogController struct {
	archive *services.LogArchiveService
}

func NewLogController(archive *services.LogArchiveService) *LogController {
	return &LogController{archive: archive}
}

// GetActivityLogs lists activity entries with optional filters.
func (lc *LogController) GetActivityLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	query := database.DB.Model(&models.ActivityLog{})
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	query.Count(&total)

	var logs []models.ActivityLog
	err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&logs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// FlushLogs forces the Redis-cached activity entries into the database.
func (lc *LogController) FlushLogs(c *fiber.Ctx) error {
	if lc.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Log maintenance is not configured",
		})
	}

	if err := lc.archive.FlushCachedLogs(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to flush cached logs",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cached logs flushed",
	})
}

// GetArchives lists past log archives.
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	if lc.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Log maintenance is not configured",
		})
	}

	archives, err := lc.archive.ListArchives()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch archives",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
		"total":    len(archives),
	})
}
