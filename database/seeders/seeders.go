package seeders

import (
	"siakad_go/database"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/sirupsen/logrus"
)

// SeedAll populates the minimum data a fresh installation needs: an admin
// account, the catalog hierarchy and one active academic year. Each seeder
// is idempotent.
func SeedAll() {
	seedAdmin()
	seedAcademicYear()
	seedCatalog()
}

func seedAdmin() {
	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		logrus.WithError(err).Error("Failed to hash seed admin password")
		return
	}

	admin := models.User{
		Username: "admin",
		Password: hashed,
		Email:    "admin@siakad.local",
		Role:     "admin",
		Status:   "active",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed admin user")
		return
	}
	logrus.Info("Seeded default admin user")
}

func seedAcademicYear() {
	var count int64
	database.DB.Model(&models.AcademicYear{}).Count(&count)
	if count > 0 {
		return
	}

	year := models.AcademicYear{
		Name:     "2025/2026",
		Semester: "odd",
		Active:   true,
	}
	if err := database.DB.Create(&year).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed academic year")
		return
	}
	logrus.Info("Seeded active academic year")
}

func seedCatalog() {
	var count int64
	database.DB.Model(&models.Major{}).Count(&count)
	if count > 0 {
		return
	}

	major := models.Major{Name: "Teknik Informatika", Code: "TI", Active: true}
	if err := database.DB.Create(&major).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed major")
		return
	}

	program := models.StudyProgram{
		MajorID: major.ID,
		Name:    "S1 Teknik Informatika",
		Code:    "TI-S1",
		Degree:  "S1",
		Active:  true,
	}
	if err := database.DB.Create(&program).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed study program")
		return
	}

	curriculum := models.Curriculum{
		StudyProgramID: program.ID,
		Name:           "Kurikulum 2024",
		Year:           2024,
		Active:         true,
	}
	if err := database.DB.Create(&curriculum).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed curriculum")
		return
	}

	courses := []models.Course{
		{CurriculumID: curriculum.ID, Code: "IF101", Name: "Dasar Pemrograman", Credits: 3, Semester: 1, Status: "active"},
		{CurriculumID: curriculum.ID, Code: "IF102", Name: "Matematika Diskrit", Credits: 3, Semester: 1, Status: "active"},
		{CurriculumID: curriculum.ID, Code: "IF201", Name: "Struktur Data", Credits: 4, Semester: 2, Status: "active"},
	}
	for i := range courses {
		if err := database.DB.Create(&courses[i]).Error; err != nil {
			logrus.WithError(err).Error("Failed to seed course")
			return
		}
	}

	// Struktur Data requires Dasar Pemrograman
	edge := models.Prerequisite{CourseID: courses[2].ID, PrerequisiteID: courses[0].ID}
	if err := database.DB.Create(&edge).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed prerequisite")
		return
	}

	logrus.Info("Seeded catalog hierarchy")
}
