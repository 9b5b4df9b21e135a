package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

// StatsService produces the staff-facing aggregates: attendance heatmap
// and trainer utilization. Rendering (CSV/PDF) is not done here.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService() *StatsService {
	return &StatsService{db: database.DB}
}

// HeatmapCell is one day-of-week x hour bucket.
type HeatmapCell struct {
	DayOfWeek int     `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Hour      int     `json:"hour"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"` // count / max count, 0..1
}

// TrainerUtilization summarizes one trainer's load over a period.
type TrainerUtilization struct {
	TrainerID         uint    `json:"trainer_id"`
	TrainerName       string  `json:"trainer_name"`
	ActiveAssignments int64   `json:"active_assignments"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	CancelledSessions int     `json:"cancelled_sessions"`
	TotalHours        float64 `json:"total_hours"`
	AvailabilitySlots int64   `json:"availability_slots"`
	UtilizationRate   float64 `json:"utilization_rate"`
}

// AttendanceHeatmap buckets check-ins in [from, to] by weekday and hour.
func (ss *StatsService) AttendanceHeatmap(from, to time.Time) ([]HeatmapCell, error) {
	var records []models.Attendance
	err := ss.db.Where("check_in >= ? AND check_in < ?", from, to.AddDate(0, 0, 1)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[[2]int]int)
	maxCount := 0
	for i := range records {
		key := [2]int{int(records[i].CheckIn.Weekday()), records[i].CheckIn.Hour()}
		counts[key]++
		if counts[key] > maxCount {
			maxCount = counts[key]
		}
	}

	cells := make([]HeatmapCell, 0, len(counts))
	for key, count := range counts {
		cell := HeatmapCell{DayOfWeek: key[0], Hour: key[1], Count: count}
		if maxCount > 0 {
			cell.Intensity = math.Min(float64(count)/float64(maxCount), 1.0)
		}
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].DayOfWeek != cells[j].DayOfWeek {
			return cells[i].DayOfWeek < cells[j].DayOfWeek
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells, nil
}

// TrainerUtilizationReport computes per-trainer load over [from, to],
// sorted by utilization rate descending.
func (ss *StatsService) TrainerUtilizationReport(from, to time.Time) ([]TrainerUtilization, error) {
	var trainers []models.User
	if err := ss.db.Where("role = ?", models.RoleTrainer).Find(&trainers).Error; err != nil {
		return nil, err
	}

	report := make([]TrainerUtilization, 0, len(trainers))
	for i := range trainers {
		trainer := &trainers[i]
		row := TrainerUtilization{TrainerID: trainer.ID, TrainerName: trainer.Username}

		if err := ss.db.Model(&models.TrainerTraineeAssignment{}).
			Where("trainer_id = ? AND is_active = ?", trainer.ID, true).
			Count(&row.ActiveAssignments).Error; err != nil {
			return nil, err
		}

		var sessions []models.TrainingSession
		err := ss.db.Where("trainer_id = ? AND session_date >= ? AND session_date <= ?",
			trainer.ID, utils.DateOnly(from), utils.DateOnly(to)).
			Find(&sessions).Error
		if err != nil {
			return nil, err
		}

		row.TotalSessions = len(sessions)
		var totalMinutes int
		for j := range sessions {
			switch sessions[j].Status {
			case models.SessionStatusCompleted:
				row.CompletedSessions++
				totalMinutes += sessionMinutes(&sessions[j])
			case models.SessionStatusCancelled:
				row.CancelledSessions++
			}
		}
		row.TotalHours = round2(float64(totalMinutes) / 60)

		if err := ss.db.Model(&models.TrainerAvailability{}).
			Where("trainer_id = ? AND is_available = ?", trainer.ID, true).
			Count(&row.AvailabilitySlots).Error; err != nil {
			return nil, err
		}

		row.UtilizationRate = round2(utilizationRate(row.TotalSessions, row.AvailabilitySlots))
		report = append(report, row)
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].UtilizationRate > report[j].UtilizationRate
	})
	return report, nil
}

// sessionMinutes derives a session's length from its window.
func sessionMinutes(s *models.TrainingSession) int {
	start, err1 := utils.MinutesOfDay(s.StartTime)
	end, err2 := utils.MinutesOfDay(s.EndTime)
	if err1 != nil || err2 != nil || end <= start {
		return 0
	}
	return end - start
}

// utilizationRate estimates booked sessions against available weekly
// slots over roughly a month (slots * 4), capped at 100.
func utilizationRate(totalSessions int, availabilitySlots int64) float64 {
	if availabilitySlots <= 0 {
		return 0
	}
	rate := float64(totalSessions) / float64(availabilitySlots*4) * 100
	return math.Min(rate, 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
