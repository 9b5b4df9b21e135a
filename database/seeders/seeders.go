package seeders

import (
	"log"
	"time"

	"gymbuddy_go/database"
	"gymbuddy_go/models"
	"gymbuddy_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedAssignments()
	SeedAvailability()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers creates a default owner plus a sample trainer and trainee.
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	users := []struct {
		username string
		email    string
		role     string
	}{
		{"owner", "owner@gymbuddy.local", models.RoleOwner},
		{"manager", "manager@gymbuddy.local", models.RoleManager},
		{"trainer.alex", "alex@gymbuddy.local", models.RoleTrainer},
		{"trainee.sam", "sam@gymbuddy.local", models.RoleTrainee},
	}

	for _, u := range users {
		hashed, err := utils.HashPassword("ChangeMe123!")
		if err != nil {
			log.Printf("Error hashing seed password for %s: %v", u.username, err)
			continue
		}
		user := models.User{
			Username: u.username,
			Password: hashed,
			Email:    u.email,
			Role:     u.role,
			Status:   "active",
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", u.username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedAssignments links the sample trainer with the sample trainee.
func SeedAssignments() {
	var count int64
	database.DB.Model(&models.TrainerTraineeAssignment{}).Count(&count)
	if count > 0 {
		log.Println("Assignments already seeded, skipping...")
		return
	}

	var trainer, trainee models.User
	if err := database.DB.Where("role = ?", models.RoleTrainer).First(&trainer).Error; err != nil {
		log.Println("No trainer to seed assignments for, skipping...")
		return
	}
	if err := database.DB.Where("role = ?", models.RoleTrainee).First(&trainee).Error; err != nil {
		log.Println("No trainee to seed assignments for, skipping...")
		return
	}

	assignment := models.TrainerTraineeAssignment{
		TrainerID: trainer.ID,
		TraineeID: trainee.ID,
		StartDate: time.Now(),
		IsActive:  true,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		log.Printf("Error seeding assignment: %v", err)
		return
	}

	log.Println("Assignments seeded successfully")
}

// SeedAvailability gives the sample trainer weekday morning slots.
func SeedAvailability() {
	var count int64
	database.DB.Model(&models.TrainerAvailability{}).Count(&count)
	if count > 0 {
		log.Println("Availability already seeded, skipping...")
		return
	}

	var trainer models.User
	if err := database.DB.Where("role = ?", models.RoleTrainer).First(&trainer).Error; err != nil {
		log.Println("No trainer to seed availability for, skipping...")
		return
	}

	// Monday through Friday, 09:00-12:00
	for day := 1; day <= 5; day++ {
		slot := models.TrainerAvailability{
			TrainerID:   trainer.ID,
			DayOfWeek:   day,
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: true,
		}
		if err := database.DB.Create(&slot).Error; err != nil {
			log.Printf("Error seeding availability for day %d: %v", day, err)
		}
	}

	log.Println("Availability seeded successfully")
}
