package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

// ReminderScheduler is the in-process poller behind the reminder and
// session lifecycle sweeps. Every job is idempotent: the due query plus
// the monotonic sent flag make repeated or concurrent runs safe.
type ReminderScheduler struct {
	db        *gorm.DB
	reminders *ReminderService
	cron      *cron.Cron
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		db:        database.DB,
		reminders: NewReminderService(),
		cron:      cron.New(),
	}
}

// Start registers the cron jobs and starts the scheduler in its own
// goroutines.
func (sched *ReminderScheduler) Start() {
	if _, err := sched.cron.AddFunc("* * * * *", sched.ProcessDueReminders); err != nil {
		logrus.WithError(err).Error("Failed to register due-reminder job")
	}
	if _, err := sched.cron.AddFunc("*/10 * * * *", sched.CompleteFinishedSessions); err != nil {
		logrus.WithError(err).Error("Failed to register session completion job")
	}
	if _, err := sched.cron.AddFunc("0 * * * *", sched.SweepNoShows); err != nil {
		logrus.WithError(err).Error("Failed to register no-show sweep job")
	}

	sched.cron.Start()
	logrus.Info("Reminder scheduler started")
}

// Stop halts the cron scheduler, waiting for running jobs.
func (sched *ReminderScheduler) Stop() {
	ctx := sched.cron.Stop()
	<-ctx.Done()
}

// ProcessDueReminders turns due reminders into notification records for
// both participants and marks them sent.
func (sched *ReminderScheduler) ProcessDueReminders() {
	due, err := sched.reminders.DueReminders(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to query due reminders")
		return
	}

	for i := range due {
		reminder := &due[i]

		// Skip reminders whose session was cancelled in the meantime
		if reminder.Session.Status == models.SessionStatusCancelled {
			if _, err := sched.reminders.MarkSent(reminder.ID); err != nil {
				logrus.WithError(err).WithField("reminder_id", reminder.ID).Error("Failed to retire reminder")
			}
			continue
		}

		message := upcomingSessionMessage(&reminder.Session)
		for _, userID := range []uint{reminder.Session.TrainerID, reminder.Session.TraineeID} {
			notification := models.Notification{
				UserID:  userID,
				Title:   "Upcoming Training Session",
				Message: message,
				Type:    "info",
			}
			if err := sched.db.Create(&notification).Error; err != nil {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to create reminder notification")
			}
		}

		if _, err := sched.reminders.MarkSent(reminder.ID); err != nil {
			logrus.WithError(err).WithField("reminder_id", reminder.ID).Error("Failed to mark reminder sent")
		}
	}

	if len(due) > 0 {
		logrus.WithField("count", len(due)).Info("Processed due reminders")
	}
}

// CompleteFinishedSessions moves confirmed or in-progress sessions whose
// end time has passed to completed.
func (sched *ReminderScheduler) CompleteFinishedSessions() {
	now := time.Now()

	var sessions []models.TrainingSession
	err := sched.db.Where("session_date <= ? AND status IN ?",
		utils.DateOnly(now),
		[]string{models.SessionStatusConfirmed, models.SessionStatusInProgress}).
		Find(&sessions).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to query finishing sessions")
		return
	}

	completed := 0
	for i := range sessions {
		session := &sessions[i]
		endAt := utils.CombineDateTime(session.SessionDate, session.EndTime)
		if endAt.After(now) {
			continue
		}
		if err := sched.db.Model(session).Update("status", models.SessionStatusCompleted).Error; err != nil {
			logrus.WithError(err).WithField("session_id", session.ID).Error("Failed to complete session")
			continue
		}
		completed++
	}

	if completed > 0 {
		logrus.WithField("count", completed).Info("Auto-completed finished sessions")
	}
}

// SweepNoShows flags sessions still scheduled well past their start time
// and alerts staff.
func (sched *ReminderScheduler) SweepNoShows() {
	cutoff := time.Now().Add(-30 * time.Minute)

	var sessions []models.TrainingSession
	err := sched.db.Where("session_date <= ? AND status = ?",
		utils.DateOnly(cutoff), models.SessionStatusScheduled).
		Find(&sessions).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to query stale sessions")
		return
	}

	for i := range sessions {
		session := &sessions[i]
		startAt := utils.CombineDateTime(session.SessionDate, session.StartTime)
		if startAt.After(cutoff) {
			continue
		}
		if err := sched.db.Model(session).Update("status", models.SessionStatusNoShow).Error; err != nil {
			logrus.WithError(err).WithField("session_id", session.ID).Error("Failed to flag no-show")
			continue
		}
		sched.notifyStaffNoShow(session)
	}
}

func (sched *ReminderScheduler) notifyStaffNoShow(session *models.TrainingSession) {
	var staff []models.User
	err := sched.db.Where("role IN ?",
		[]string{models.RoleSuperAdmin, models.RoleOwner, models.RoleManager}).
		Find(&staff).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to load staff users for no-show alert")
		return
	}

	message := fmt.Sprintf("Session on %s at %s was missed (no-show)",
		session.SessionDate.Format("2006-01-02"), session.StartTime)
	for _, user := range staff {
		notification := models.Notification{
			UserID:  user.ID,
			Title:   "Missed Session Alert",
			Message: message,
			Type:    "warning",
		}
		if err := sched.db.Create(&notification).Error; err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to create no-show notification")
		}
	}
}

// upcomingSessionMessage builds the reminder body for a session.
func upcomingSessionMessage(session *models.TrainingSession) string {
	return fmt.Sprintf("Your training session on %s starts at %s",
		session.SessionDate.Format("2006-01-02"), session.StartTime)
}
