package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"gymbuddy_go/database"
	"gymbuddy_go/middleware"
	"gymbuddy_go/models"
)

// AvailabilityImportController bulk-loads trainer weekly slots from a
// CSV/XLSX sheet with columns: trainer username, day of week, start
// time, end time, available (optional).
type AvailabilityImportController struct{}

type importRowResult struct {
	Row     int    `json:"row"`
	Status  string `json:"status"` // created, skipped, error
	Message string `json:"message,omitempty"`
}

// Import parses the uploaded sheet and creates availability slots.
func (aic *AvailabilityImportController) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	filename := strings.ToLower(fileHeader.Filename)
	var rows [][]string
	var parseErr error

	if strings.HasSuffix(filename, ".csv") {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
		}
		defer file.Close()
		rows, parseErr = readCSV(file)
	} else if strings.HasSuffix(filename, ".xlsx") || strings.HasSuffix(filename, ".xls") {
		tmpDir, _ := os.MkdirTemp("", "gbavailability-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fileHeader.Filename)))
		if err := c.SaveFile(fileHeader, tmp); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to buffer upload"})
		}
		rows, parseErr = readXLSX(tmp)
		_ = os.Remove(tmp)
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (csv, xlsx)"})
	}
	if parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr.Error()})
	}
	if len(rows) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file has no data rows"})
	}

	colIndex := buildColumnIndex(rows[0])
	for _, key := range []string{"trainer", "day of week", "start time", "end time"} {
		if _, ok := colIndex[key]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("missing column: %s", key)})
		}
	}

	var results []importRowResult
	var created int
	for i, row := range rows[1:] {
		result := aic.importRow(row, colIndex)
		result.Row = i + 2 // 1-based, after the header
		if result.Status == "created" {
			created++
		}
		results = append(results, result)
	}

	middleware.LogActivity(c, "CREATE", "availability", 0, fiber.Map{
		"import":  fileHeader.Filename,
		"created": created,
	})

	return c.JSON(fiber.Map{
		"message": "Import completed",
		"created": created,
		"results": results,
	})
}

func (aic *AvailabilityImportController) importRow(row []string, colIndex map[string]int) importRowResult {
	get := func(key string) string {
		idx, ok := colIndex[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	username := get("trainer")
	if username == "" {
		return importRowResult{Status: "skipped", Message: "empty trainer"}
	}

	var trainer models.User
	err := database.DB.Where("username = ? AND role = ?", username, models.RoleTrainer).First(&trainer).Error
	if err != nil {
		return importRowResult{Status: "error", Message: "unknown trainer: " + username}
	}

	dayOfWeek, err := parseDayOfWeek(get("day of week"))
	if err != nil {
		return importRowResult{Status: "error", Message: err.Error()}
	}

	startTime := get("start time")
	endTime := get("end time")
	if serr := validateSlotTimes(dayOfWeek, startTime, endTime); serr != nil {
		return importRowResult{Status: "error", Message: serr.Message}
	}

	available := true
	if v := strings.ToLower(get("available")); v == "false" || v == "no" || v == "0" {
		available = false
	}

	var existing models.TrainerAvailability
	err = database.DB.Where("trainer_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ?",
		trainer.ID, dayOfWeek, startTime, endTime).
		First(&existing).Error
	if err == nil {
		return importRowResult{Status: "skipped", Message: "duplicate slot"}
	}

	slot := models.TrainerAvailability{
		TrainerID:   trainer.ID,
		DayOfWeek:   dayOfWeek,
		StartTime:   startTime,
		EndTime:     endTime,
		IsAvailable: available,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return importRowResult{Status: "error", Message: "failed to create slot"}
	}
	return importRowResult{Status: "created"}
}

// parseDayOfWeek accepts a 0-6 number or an English weekday name.
func parseDayOfWeek(value string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("empty day of week")
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("day of week out of range: %s", value)
		}
		return n, nil
	}

	names := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	for i, name := range names {
		if strings.HasPrefix(name, v) && len(v) >= 3 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week: %s", value)
}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if key != "" {
			index[key] = i
		}
	}
	return index
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %v", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %v", err)
	}
	return rows, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
