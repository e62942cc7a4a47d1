package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type LecturerController struct{}

// GetLecturers returns all lecturers with pagination
func (lc *LecturerController) GetLecturers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var lecturers []models.Lecturer
	var total int64

	query := database.DB.Model(&models.Lecturer{})

	if programID := c.Query("study_program_id"); programID != "" {
		query = query.Where("study_program_id = ?", programID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("nidn LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Preload("User").Preload("StudyProgram").
		Offset(offset).Limit(limit).Find(&lecturers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lecturers",
		})
	}

	return c.JSON(fiber.Map{
		"lecturers": lecturers,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLecturer returns a specific lecturer by ID
func (lc *LecturerController) GetLecturer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var lecturer models.Lecturer
	if err := database.DB.Preload("User").Preload("StudyProgram").
		First(&lecturer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lecturer not found",
		})
	}

	return c.JSON(fiber.Map{
		"lecturer": lecturer,
	})
}

// CreateLecturer creates a lecturer profile for an existing user (admin only)
func (lc *LecturerController) CreateLecturer(c *fiber.Ctx) error {
	var req struct {
		UserID         uint   `json:"user_id" validate:"required"`
		NIDN           string `json:"nidn" validate:"required"`
		FirstName      string `json:"first_name" validate:"required"`
		LastName       string `json:"last_name"`
		Degree         string `json:"degree"`
		StudyProgramID uint   `json:"study_program_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("id = ? AND role = ?", req.UserID, "lecturer").
		First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found or not a lecturer",
		})
	}

	var existing models.Lecturer
	if err := database.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Lecturer profile already exists for this user",
		})
	}
	if err := database.DB.Where("nidn = ?", req.NIDN).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "NIDN already registered",
		})
	}

	lecturer := models.Lecturer{
		UserID:         req.UserID,
		NIDN:           req.NIDN,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Degree:         req.Degree,
		StudyProgramID: req.StudyProgramID,
		Active:         true,
	}
	if err := database.DB.Create(&lecturer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create lecturer profile",
		})
	}

	database.DB.Preload("User").Preload("StudyProgram").First(&lecturer, lecturer.ID)

	middleware.LogActivity(c, "CREATE", "lecturers", lecturer.ID, lecturer)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Lecturer profile created successfully",
		"lecturer": lecturer,
	})
}

// UpdateLecturer updates an existing lecturer profile (admin only)
func (lc *LecturerController) UpdateLecturer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var lecturer models.Lecturer
	if err := database.DB.First(&lecturer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lecturer not found",
		})
	}

	var updateData models.Lecturer
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Don't allow changing UserID or NIDN through updates
	updateData.UserID = lecturer.UserID
	updateData.NIDN = lecturer.NIDN

	if err := database.DB.Model(&lecturer).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update lecturer profile",
		})
	}

	middleware.LogActivity(c, "UPDATE", "lecturers", lecturer.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Lecturer profile updated successfully",
		"lecturer": lecturer,
	})
}

// GetLecturerClasses returns classes taught by a lecturer
func (lc *LecturerController) GetLecturerClasses(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var classes []models.Class
	query := database.DB.Where("lecturer_id = ?", id).
		Preload("Course").Preload("AcademicYear").Preload("Schedules")

	if yearID := c.Query("academic_year_id"); yearID != "" {
		query = query.Where("academic_year_id = ?", yearID)
	}

	if err := query.Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
		"total":   len(classes),
	})
}
