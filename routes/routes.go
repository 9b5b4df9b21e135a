package routes

import (
	"gymbuddy_go/controllers"
	"gymbuddy_go/middleware"
	"gymbuddy_go/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, archiveService *services.LogArchiveService) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := controllers.NewUserController()
	availabilityController := &controllers.AvailabilityController{}
	availabilityImportController := &controllers.AvailabilityImportController{}
	sessionController := controllers.NewSessionController()
	reminderController := controllers.NewReminderController()
	attendanceController := controllers.NewAttendanceController()
	calendarController := &controllers.CalendarController{}
	assignmentController := &controllers.AssignmentController{}
	notificationController := &controllers.NotificationController{}
	logController := controllers.NewLogController(archiveService)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)

	// User management routes
	users := protected.Group("/users")
	users.Get("/trainers", userController.GetTrainers)
	users.Get("/", middleware.RequireStaffOrAbove(), userController.GetUsers)
	users.Get("/:id", middleware.RequireStaffOrAbove(), userController.GetUser)
	users.Post("/", middleware.RequireStaffOrAbove(), userController.CreateUser)
	users.Put("/:id", middleware.RequireStaffOrAbove(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireStaffOrAbove(), userController.DeactivateUser)
	users.Post("/avatar", userController.UploadAvatar) // Users upload their own avatar

	// Trainer availability routes
	availability := protected.Group("/availability")
	availability.Get("/", availabilityController.GetAvailability)
	availability.Post("/", middleware.RequireTrainerOrAbove(), availabilityController.CreateAvailability)
	availability.Put("/:id", middleware.RequireTrainerOrAbove(), availabilityController.UpdateAvailability)
	availability.Delete("/:id", middleware.RequireTrainerOrAbove(), availabilityController.DeleteAvailability)
	availability.Post("/import", middleware.RequireStaffOrAbove(), availabilityImportController.Import)

	// Session booking routes
	sessions := protected.Group("/sessions")
	sessions.Get("/calendar", calendarController.GetMonthView)
	sessions.Get("/trainers/:trainer_id/day", sessionController.GetTrainerDaySchedule)
	sessions.Get("/", sessionController.GetSessions)
	sessions.Post("/", sessionController.BookSession)
	sessions.Get("/:id", sessionController.GetSession)
	sessions.Put("/:id", sessionController.UpdateSession)
	sessions.Post("/:id/cancel", sessionController.CancelSession)
	sessions.Patch("/:id/status", sessionController.UpdateSessionStatus)
	sessions.Get("/:id/reminders", reminderController.GetSessionReminders)

	// Reminder routes
	reminders := protected.Group("/reminders")
	reminders.Post("/", reminderController.ScheduleReminder)
	reminders.Get("/due", middleware.RequireStaffOrAbove(), reminderController.GetDueReminders)
	reminders.Post("/:id/sent", middleware.RequireStaffOrAbove(), reminderController.MarkReminderSent)
	reminders.Delete("/:id", reminderController.DeleteReminder)

	// Attendance routes
	attendance := protected.Group("/attendance")
	attendance.Post("/check-in", attendanceController.CheckIn)
	attendance.Post("/check-out", attendanceController.CheckOut)
	attendance.Get("/history", attendanceController.GetHistory)
	attendance.Get("/stats", attendanceController.GetStats)
	attendance.Get("/current", middleware.RequireStaffOrAbove(), attendanceController.GetCurrentlyCheckedIn)
	attendance.Get("/heatmap", middleware.RequireStaffOrAbove(), attendanceController.GetHeatmap)

	// Trainer-trainee assignment routes
	assignments := protected.Group("/assignments")
	assignments.Get("/", assignmentController.GetAssignments)
	assignments.Post("/", middleware.RequireStaffOrAbove(), assignmentController.CreateAssignment)
	assignments.Delete("/:id", middleware.RequireStaffOrAbove(), assignmentController.DeactivateAssignment)

	// Reporting routes (staff only)
	reports := protected.Group("/reports", middleware.RequireStaffOrAbove())
	reports.Get("/trainer-utilization", attendanceController.GetTrainerUtilization)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/:id/read", notificationController.MarkRead)
	notifications.Patch("/read-all", notificationController.MarkAllRead)

	// Activity log routes (staff only)
	logs := protected.Group("/logs", middleware.RequireStaffOrAbove())
	logs.Get("/", logController.GetActivityLogs)
	logs.Post("/flush", logController.FlushLogs)
	logs.Get("/archives", logController.GetArchives)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "gymbuddy-api",
		})
	})
}
