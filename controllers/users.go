package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
	"gymbuddy_go/storage"
	"gymbuddy_go/utils"
)

type UserController struct {
	storage *storage.StorageService
}

func NewUserController() *UserController {
	svc, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable, avatar uploads disabled")
	}
	return &UserController{storage: svc}
}

// CreateUser registers a new account. Staff only.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if body.Username == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}
	if len(body.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}
	if !utils.IsValidRole(body.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var existing models.User
	if err := database.DB.Where("username = ?", body.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already taken",
		})
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username: body.Username,
		Password: hashed,
		Email:    body.Email,
		Phone:    body.Phone,
		Role:     body.Role,
		Status:   "active",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// GetUsers lists accounts with optional role/status filters. Staff only.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeString(search) + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	err := query.Order("username ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns one account.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// GetTrainers lists active trainers for booking pickers. Any
// authenticated user may call this.
func (uc *UserController) GetTrainers(c *fiber.Ctx) error {
	var trainers []models.User
	err := database.DB.Where("role = ? AND status = ?", models.RoleTrainer, "active").
		Order("username ASC").
		Find(&trainers).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch trainers",
		})
	}

	return c.JSON(fiber.Map{
		"trainers": trainers,
		"total":    len(trainers),
	})
}

// UpdateUser edits profile fields. Staff only.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var body struct {
		Email  *string `json:"email"`
		Phone  *string `json:"phone"`
		Role   *string `json:"role"`
		Status *string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if body.Email != nil {
		updates["email"] = *body.Email
	}
	if body.Phone != nil {
		updates["phone"] = *body.Phone
	}
	if body.Role != nil {
		if !utils.IsValidRole(*body.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid role",
			})
		}
		updates["role"] = *body.Role
	}
	if body.Status != nil {
		if !utils.IsValidUserStatus(*body.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status",
			})
		}
		updates["status"] = *body.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update user",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// UploadAvatar stores a profile image on S3 and saves its URL.
func (uc *UserController) UploadAvatar(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	if uc.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "File storage is not configured",
		})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "avatar file is required",
		})
	}
	if !utils.IsValidFileExtension(fileHeader.Filename, []string{"jpg", "jpeg", "png", "webp"}) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported image type",
		})
	}

	url, err := uc.storage.UploadFile(fileHeader, "avatars", user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload avatar",
		})
	}

	if user.Avatar != "" {
		// old image is best-effort cleanup
		_ = uc.storage.DeleteFile(user.Avatar)
	}

	if err := database.DB.Model(user).Update("avatar", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save avatar",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{
		"action": "upload_avatar",
	})

	return c.JSON(fiber.Map{
		"message": "Avatar uploaded successfully",
		"avatar":  url,
	})
}

// DeactivateUser marks an account inactive instead of deleting it.
func (uc *UserController) DeactivateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.DB.Model(&user).Update("status", "inactive").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate user",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{
		"action": "deactivate",
	})

	return c.JSON(fiber.Map{
		"message": "User deactivated successfully",
	})
}
