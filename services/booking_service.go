package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

// BookingService owns session creation, update, cancellation and the
// status state machine. It is the single authority for double-booking
// detection: availability slots are advisory and never consulted here.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService() *BookingService {
	return &BookingService{db: database.DB}
}

// BookSessionRequest carries the prospective values for a new or updated
// session. Times are "HH:MM" wall-clock strings.
type BookSessionRequest struct {
	TrainerID   uint      `json:"trainer_id"`
	TraineeID   uint      `json:"trainee_id"`
	SessionDate time.Time `json:"session_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Notes       string    `json:"notes"`
}

// activeStatuses are the statuses that count toward conflicts.
var activeStatuses = []string{
	models.SessionStatusScheduled,
	models.SessionStatusConfirmed,
	models.SessionStatusInProgress,
}

// sessionTransitions is the forward-only status state machine. Terminal
// statuses (completed, cancelled, no_show) have no outgoing edges.
var sessionTransitions = map[string][]string{
	models.SessionStatusScheduled: {
		models.SessionStatusConfirmed,
		models.SessionStatusInProgress,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
	},
	models.SessionStatusConfirmed: {
		models.SessionStatusInProgress,
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
	},
	models.SessionStatusInProgress: {
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
	},
}

// IsActiveStatus reports whether the status counts toward double-booking.
func IsActiveStatus(status string) bool {
	for _, s := range activeStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidSessionStatus reports whether the value is a known status.
func IsValidSessionStatus(status string) bool {
	switch status {
	case models.SessionStatusScheduled, models.SessionStatusConfirmed,
		models.SessionStatusInProgress, models.SessionStatusCompleted,
		models.SessionStatusCancelled, models.SessionStatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal forward move.
func CanTransition(from, to string) bool {
	for _, allowed := range sessionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// validateWindow runs the structural checks shared by book and update:
// parseable times, start < end, and a session date not in the past
// relative to today.
func validateWindow(req BookSessionRequest, today time.Time) (utils.SessionWindow, *ServiceError) {
	window, err := utils.NewSessionWindow(req.SessionDate, req.StartTime, req.EndTime)
	if err != nil {
		return utils.SessionWindow{}, NewValidationError(CodeInvalidTimeRange, "start time must be before end time")
	}
	if utils.DateOnly(req.SessionDate).Before(utils.DateOnly(today)) {
		return utils.SessionWindow{}, NewValidationError(CodePastDate, "session date cannot be in the past")
	}
	return window, nil
}

// findConflict scans the trainer's same-day active sessions for a
// half-open interval overlap, skipping excludeID (the session being
// updated). Returns the first conflicting session, or nil.
func findConflict(existing []models.TrainingSession, window utils.SessionWindow, excludeID uint) *models.TrainingSession {
	for i := range existing {
		s := &existing[i]
		if s.ID == excludeID {
			continue
		}
		if !IsActiveStatus(s.Status) {
			continue
		}
		other := utils.SessionWindow{Date: s.SessionDate, StartTime: s.StartTime, EndTime: s.EndTime}
		if window.Overlaps(other) {
			return s
		}
	}
	return nil
}

// BookSession validates and persists a new session with status scheduled.
// The conflict read and the insert run inside one transaction with a
// locking read so two concurrent bookings cannot both pass the check.
func (bs *BookingService) BookSession(req BookSessionRequest, actor *models.User) (*models.TrainingSession, error) {
	window, serr := validateWindow(req, time.Now())
	if serr != nil {
		return nil, serr
	}

	session := models.TrainingSession{
		TrainerID:   req.TrainerID,
		TraineeID:   req.TraineeID,
		SessionDate: utils.DateOnly(req.SessionDate),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      models.SessionStatusScheduled,
		Notes:       req.Notes,
		CreatedByID: actor.ID,
	}

	err := bs.db.Transaction(func(tx *gorm.DB) error {
		existing, err := trainerSessionsOnDate(tx, req.TrainerID, session.SessionDate)
		if err != nil {
			return err
		}
		if conflict := findConflict(existing, window, 0); conflict != nil {
			return NewConflictError(CodeTrainerDoubleBooked,
				"trainer already has a session from "+conflict.StartTime+" to "+conflict.EndTime)
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession re-runs the full validation and conflict pipeline against
// the prospective values, excluding the session's own prior record.
func (bs *BookingService) UpdateSession(sessionID uint, req BookSessionRequest, actor *models.User) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := bs.db.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "only the trainer, trainee or staff may modify this session")
	}
	if session.IsTerminal() {
		return nil, NewStateError(CodeSessionTerminal, "session is in a terminal state and cannot be modified")
	}

	// Blank fields keep their current values
	if req.TrainerID == 0 {
		req.TrainerID = session.TrainerID
	}
	if req.TraineeID == 0 {
		req.TraineeID = session.TraineeID
	}
	if req.SessionDate.IsZero() {
		req.SessionDate = session.SessionDate
	}
	if req.StartTime == "" {
		req.StartTime = session.StartTime
	}
	if req.EndTime == "" {
		req.EndTime = session.EndTime
	}

	window, serr := validateWindow(req, time.Now())
	if serr != nil {
		return nil, serr
	}

	err := bs.db.Transaction(func(tx *gorm.DB) error {
		existing, err := trainerSessionsOnDate(tx, req.TrainerID, utils.DateOnly(req.SessionDate))
		if err != nil {
			return err
		}
		if conflict := findConflict(existing, window, session.ID); conflict != nil {
			return NewConflictError(CodeTrainerDoubleBooked,
				"trainer already has a session from "+conflict.StartTime+" to "+conflict.EndTime)
		}

		updates := map[string]interface{}{
			"trainer_id":   req.TrainerID,
			"trainee_id":   req.TraineeID,
			"session_date": utils.DateOnly(req.SessionDate),
			"start_time":   req.StartTime,
			"end_time":     req.EndTime,
		}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}
		return tx.Model(&session).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if err := bs.db.First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelSession sets status, cancelled_at, cancelled_by and the reason in
// one atomic update. Cancelling a session already in a terminal state is
// a state error, not a silent re-cancel.
func (bs *BookingService) CancelSession(sessionID uint, actor *models.User, reason string) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := bs.db.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "only the trainer, trainee or staff may cancel this session")
	}
	if session.IsTerminal() {
		return nil, NewStateError(CodeSessionTerminal, "session is already in a terminal state")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":              models.SessionStatusCancelled,
		"cancelled_at":        now,
		"cancelled_by_id":     actor.ID,
		"cancellation_reason": reason,
	}
	if err := bs.db.Model(&session).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := bs.db.First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateStatus moves a session along the forward-only state machine.
func (bs *BookingService) UpdateStatus(sessionID uint, newStatus string, actor *models.User) (*models.TrainingSession, error) {
	if !IsValidSessionStatus(newStatus) {
		return nil, NewValidationError(CodeInvalidStatus, "unknown session status: "+newStatus)
	}

	var session models.TrainingSession
	if err := bs.db.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}

	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "only the trainer, trainee or staff may update this session")
	}

	// Cancellation carries extra fields; force callers through CancelSession
	if newStatus == models.SessionStatusCancelled {
		return nil, NewValidationError(CodeInvalidTransition, "use the cancel endpoint to cancel a session")
	}
	if !CanTransition(session.Status, newStatus) {
		return nil, NewStateError(CodeInvalidTransition,
			"cannot move session from "+session.Status+" to "+newStatus)
	}

	if err := bs.db.Model(&session).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	session.Status = newStatus
	return &session, nil
}

// GetSession loads one session with participants, enforcing visibility.
func (bs *BookingService) GetSession(sessionID uint, actor *models.User) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := bs.db.Preload("Trainer").Preload("Trainee").First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("session not found")
		}
		return nil, err
	}
	if !models.CanManageSession(actor, &session) {
		return nil, NewPermissionError(CodeNotParticipant, "you do not have access to this session")
	}
	return &session, nil
}

// trainerSessionsOnDate reads the trainer's sessions for one date with a
// FOR UPDATE lock, serializing concurrent bookings for the same trainer.
func trainerSessionsOnDate(tx *gorm.DB, trainerID uint, date time.Time) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("trainer_id = ? AND session_date = ? AND status IN ?", trainerID, date, activeStatuses).
		Find(&sessions).Error
	return sessions, err
}
