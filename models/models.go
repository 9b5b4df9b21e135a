package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User roles
const (
	RoleSuperAdmin = "super_admin"
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleTrainer    = "trainer"
	RoleTrainee    = "trainee"
)

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'trainee';type:enum('super_admin','owner','manager','trainer','trainee')"` // super_admin, owner, manager, trainer, trainee
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`                    // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	LastLogin *time.Time `json:"last_login"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}

// IsStaffOrAbove reports whether the user holds an administrative tier.
func (u *User) IsStaffOrAbove() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleOwner || u.Role == RoleManager
}

// TrainerTraineeAssignment links a trainer with a trainee they coach
type TrainerTraineeAssignment struct {
	BaseModel
	TrainerID uint      `json:"trainer_id" gorm:"not null;index"`
	TraineeID uint      `json:"trainee_id" gorm:"not null;index"`
	StartDate time.Time `json:"start_date"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// Relationships
	Trainer User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Trainee User `json:"trainee,omitempty" gorm:"foreignKey:TraineeID"`
}

// TrainerAvailability is a recurring weekly open slot for a trainer.
// Times are wall-clock "HH:MM" strings; DayOfWeek is 0 (Sunday) through
// 6 (Saturday). Slots are advisory only and are never re-checked when a
// session is booked.
type TrainerAvailability struct {
	BaseModel
	TrainerID   uint   `json:"trainer_id" gorm:"not null;index:idx_availability_slot,unique"`
	DayOfWeek   int    `json:"day_of_week" gorm:"not null;index:idx_availability_slot,unique"`
	StartTime   string `json:"start_time" gorm:"size:5;not null;index:idx_availability_slot,unique"`
	EndTime     string `json:"end_time" gorm:"size:5;not null;index:idx_availability_slot,unique"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`

	// Relationships
	Trainer User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

// Training session statuses
const (
	SessionStatusScheduled  = "scheduled"
	SessionStatusConfirmed  = "confirmed"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
	SessionStatusNoShow     = "no_show"
)

// TrainingSession is a dated one-on-one session between a trainer and a
// trainee. Only sessions in an active status (scheduled, confirmed,
// in_progress) count toward double-booking conflicts.
type TrainingSession struct {
	BaseModel
	TrainerID          uint       `json:"trainer_id" gorm:"not null;index"`
	TraineeID          uint       `json:"trainee_id" gorm:"not null;index"`
	SessionDate        time.Time  `json:"session_date" gorm:"not null;index"`
	StartTime          string     `json:"start_time" gorm:"size:5;not null"`
	EndTime            string     `json:"end_time" gorm:"size:5;not null"`
	Status             string     `json:"status" gorm:"size:50;not null;default:'scheduled';type:enum('scheduled','confirmed','in_progress','completed','cancelled','no_show')"` // scheduled, confirmed, in_progress, completed, cancelled, no_show
	Notes              string     `json:"notes" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancelledByID      *uint      `json:"cancelled_by_id"`
	CancellationReason string     `json:"cancellation_reason" gorm:"type:text"`
	CreatedByID        uint       `json:"created_by_id"`

	// Relationships
	Trainer     User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Trainee     User `json:"trainee,omitempty" gorm:"foreignKey:TraineeID"`
	CancelledBy User `json:"cancelled_by,omitempty" gorm:"foreignKey:CancelledByID"`
	CreatedBy   User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// IsTerminal reports whether the session has reached a terminal status.
func (s *TrainingSession) IsTerminal() bool {
	switch s.Status {
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow:
		return true
	}
	return false
}

// CanManageSession reports whether the user may mutate the session:
// either participant, or any staff tier.
func CanManageSession(u *User, s *TrainingSession) bool {
	if u == nil || s == nil {
		return false
	}
	return u.IsStaffOrAbove() || u.ID == s.TrainerID || u.ID == s.TraineeID
}

// Reminder types
const (
	ReminderTypeEmail = "email"
	ReminderTypeSMS   = "sms"
	ReminderTypePush  = "push"
)

// SessionReminder is a timed reminder attached to a training session.
// Sent flips false -> true exactly once; delivery itself is done by an
// external notifier consuming the due query.
type SessionReminder struct {
	BaseModel
	SessionID    uint       `json:"session_id" gorm:"not null;index"`
	ReminderType string     `json:"reminder_type" gorm:"size:20;not null;default:'email';type:enum('email','sms','push')"` // email, sms, push
	ReminderTime time.Time  `json:"reminder_time" gorm:"not null;index"`
	Sent         bool       `json:"sent" gorm:"default:false;index"`
	SentAt       *time.Time `json:"sent_at"`

	// Relationships
	Session TrainingSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

// Attendance is a gym check-in/check-out record for a trainee. A trainee
// may hold at most one open record (CheckOut == nil) at a time.
type Attendance struct {
	BaseModel
	TraineeID  uint       `json:"trainee_id" gorm:"not null;index"`
	CheckIn    time.Time  `json:"check_in" gorm:"not null;index"`
	CheckOut   *time.Time `json:"check_out"`
	MarkedByID *uint      `json:"marked_by_id"` // nil means self check-in
	Notes      string     `json:"notes" gorm:"type:text"`

	// Relationships
	Trainee  User `json:"trainee,omitempty" gorm:"foreignKey:TraineeID"`
	MarkedBy User `json:"marked_by,omitempty" gorm:"foreignKey:MarkedByID"`
}

// IsCheckedIn reports whether the record is still open.
func (a *Attendance) IsCheckedIn() bool {
	return a.CheckOut == nil
}

// DurationMinutes returns the visit length in whole minutes, or 0 while
// the record is still open.
func (a *Attendance) DurationMinutes() int {
	if a.CheckOut == nil {
		return 0
	}
	return int(a.CheckOut.Sub(a.CheckIn).Minutes())
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
