package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
)

// AttendanceService tracks gym check-ins and check-outs. The ledger is
// independent of training sessions; it only shares the user table.
type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{db: database.DB}
}

// AttendanceStats is the aggregate view for one trainee over a period.
type AttendanceStats struct {
	TraineeID        uint    `json:"trainee_id"`
	TotalVisits      int64   `json:"total_visits"`
	TotalMinutes     int     `json:"total_minutes"`
	AverageMinutes   float64 `json:"average_minutes"`
	CurrentlyChecked bool    `json:"currently_checked_in"`
}

// CheckIn opens a new attendance record. The open-record check and the
// insert run in one transaction with a locking read so a trainee cannot
// end up with two concurrent open records.
func (as *AttendanceService) CheckIn(traineeID uint, markedByID *uint, notes string) (*models.Attendance, error) {
	record := models.Attendance{
		TraineeID:  traineeID,
		CheckIn:    time.Now(),
		MarkedByID: markedByID,
		Notes:      notes,
	}

	err := as.db.Transaction(func(tx *gorm.DB) error {
		var open models.Attendance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("trainee_id = ? AND check_out IS NULL", traineeID).
			First(&open).Error
		if err == nil {
			return NewConflictError(CodeAlreadyCheckedIn, "trainee is already checked in")
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CheckOut closes the most recent open record. Ordering by check_in
// descending guards against any accidental duplicate opens.
func (as *AttendanceService) CheckOut(traineeID uint) (*models.Attendance, error) {
	var record models.Attendance

	err := as.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("trainee_id = ? AND check_out IS NULL", traineeID).
			Order("check_in DESC").
			First(&record).Error
		if err == gorm.ErrRecordNotFound {
			return NewStateError(CodeNotCheckedIn, "trainee is not checked in")
		}
		if err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&record).Update("check_out", now).Error
	})
	if err != nil {
		return nil, err
	}

	if err := as.db.First(&record, record.ID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// History returns the trainee's records newest first, with paging.
func (as *AttendanceService) History(traineeID uint, page, limit int) ([]models.Attendance, int64, error) {
	var records []models.Attendance
	var total int64

	query := as.db.Model(&models.Attendance{}).Where("trainee_id = ?", traineeID)
	query.Count(&total)

	err := query.Order("check_in DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&records).Error
	return records, total, err
}

// Stats aggregates one trainee's attendance over [from, to]. Durations
// are derived from the records, never stored.
func (as *AttendanceService) Stats(traineeID uint, from, to time.Time) (*AttendanceStats, error) {
	var records []models.Attendance
	err := as.db.Where("trainee_id = ? AND check_in >= ? AND check_in < ?",
		traineeID, from, to.AddDate(0, 0, 1)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStats{TraineeID: traineeID}
	closed := 0
	for i := range records {
		stats.TotalVisits++
		if records[i].CheckOut != nil {
			stats.TotalMinutes += records[i].DurationMinutes()
			closed++
		}
	}
	if closed > 0 {
		stats.AverageMinutes = float64(stats.TotalMinutes) / float64(closed)
	}

	var openCount int64
	if err := as.db.Model(&models.Attendance{}).
		Where("trainee_id = ? AND check_out IS NULL", traineeID).
		Count(&openCount).Error; err != nil {
		return nil, err
	}
	stats.CurrentlyChecked = openCount > 0

	return stats, nil
}

// CurrentlyCheckedIn lists all open records, for the staff floor view.
func (as *AttendanceService) CurrentlyCheckedIn() ([]models.Attendance, error) {
	var records []models.Attendance
	err := as.db.Where("check_out IS NULL").
		Preload("Trainee").
		Order("check_in ASC").
		Find(&records).Error
	return records, err
}
