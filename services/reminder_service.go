package services

import (
	"time"

	"gorm.io/gorm"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

// ReminderService manages timed reminders attached to training sessions.
// It exposes the due query and an idempotent mark-sent mutator; actually
// delivering email/SMS/push is the notifier's job, not ours.
type ReminderService struct {
	db *gorm.DB
}

func NewReminderService() *ReminderService {
	return &ReminderService{db: database.DB}
}

// DefaultReminderLead is the suggested (not enforced) lead time.
const DefaultReminderLead = time.Hour

// IsValidReminderType reports whether the value is a known channel.
func IsValidReminderType(reminderType string) bool {
	switch reminderType {
	case models.ReminderTypeEmail, models.ReminderTypeSMS, models.ReminderTypePush:
		return true
	}
	return false
}

// validateReminderTime rejects reminders at or after the session start.
func validateReminderTime(reminderTime, sessionStart time.Time) *ServiceError {
	if !reminderTime.Before(sessionStart) {
		return NewValidationError(CodeReminderAfterSession, "reminder time must be before the session start")
	}
	return nil
}

// Schedule attaches a reminder to a session. A zero reminderTime defaults
// to one hour before the session start.
func (rs *ReminderService) Schedule(sessionID uint, reminderType string, reminderTime time.Time, actor *models.User) (*models.SessionReminder, error) {
	if !IsValidReminderType(reminderType) {
		return nil, NewValidationError(CodeInvalidStatus, "unknown reminder type: "+reminderType)
	}

	var session models.TrainingSession
	if err := rs.db.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}
	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "only the trainer, trainee or staff may add reminders")
	}

	sessionStart := utils.CombineDateTime(session.SessionDate, session.StartTime)
	if reminderTime.IsZero() {
		reminderTime = sessionStart.Add(-DefaultReminderLead)
	}
	if serr := validateReminderTime(reminderTime, sessionStart); serr != nil {
		return nil, serr
	}

	reminder := models.SessionReminder{
		SessionID:    sessionID,
		ReminderType: reminderType,
		ReminderTime: reminderTime,
	}
	if err := rs.db.Create(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// List returns a session's reminders, soonest first.
func (rs *ReminderService) List(sessionID uint, actor *models.User) ([]models.SessionReminder, error) {
	var session models.TrainingSession
	if err := rs.db.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}
	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "you do not have access to this session")
	}

	var reminders []models.SessionReminder
	err := rs.db.Where("session_id = ?", sessionID).
		Order("reminder_time ASC").
		Find(&reminders).Error
	return reminders, err
}

// DueReminders returns unsent reminders whose time has passed as of asOf.
// Sent reminders never appear here.
func (rs *ReminderService) DueReminders(asOf time.Time) ([]models.SessionReminder, error) {
	var reminders []models.SessionReminder
	err := rs.db.Where("sent = ? AND reminder_time <= ?", false, asOf).
		Preload("Session").
		Order("reminder_time ASC").
		Find(&reminders).Error
	return reminders, err
}

// MarkSent flips the sent flag. Marking an already-sent reminder is a
// no-op, so the external notifier may retry freely.
func (rs *ReminderService) MarkSent(reminderID uint) (*models.SessionReminder, error) {
	var reminder models.SessionReminder
	if err := rs.db.First(&reminder, reminderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("reminder not found")
		}
		return nil, err
	}

	if reminder.Sent {
		return &reminder, nil
	}

	now := time.Now()
	updates := map[string]interface{}{"sent": true, "sent_at": now}
	if err := rs.db.Model(&reminder).Where("sent = ?", false).Updates(updates).Error; err != nil {
		return nil, err
	}
	reminder.Sent = true
	reminder.SentAt = &now
	return &reminder, nil
}

// Delete removes an unsent reminder.
func (rs *ReminderService) Delete(reminderID uint, actor *models.User) error {
	var reminder models.SessionReminder
	if err := rs.db.Preload("Session").First(&reminder, reminderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return NewNotFoundError("reminder not found")
		}
		return err
	}
	if !models.CanManageSession(actor, &reminder.Session) {
		return NewPermissionError(CodeNotParticipant, "only the trainer, trainee or staff may delete reminders")
	}
	if reminder.Sent {
		return NewStateError(CodeSessionTerminal, "reminder has already been sent")
	}
	return rs.db.Delete(&reminder).Error
}
