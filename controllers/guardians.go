package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

type GuardianController struct{}

// GetGuardians returns all guardians with their linked students (admin only)
func (gc *GuardianController) GetGuardians(c *fiber.Ctx) error {
	var guardians []models.Guardian

	query := database.DB.Model(&models.Guardian{}).
		Preload("User").Preload("Students").Preload("Students.Student")

	if search := c.Query("search"); search != "" {
		query = query.Where("first_name LIKE ? OR last_name LIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if err := query.Find(&guardians).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch guardians",
		})
	}

	return c.JSON(fiber.Map{
		"guardians": guardians,
		"total":     len(guardians),
	})
}

// GetGuardian returns a specific guardian by ID
func (gc *GuardianController) GetGuardian(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var guardian models.Guardian
	if err := database.DB.Preload("User").Preload("Students").Preload("Students.Student").
		First(&guardian, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Guardian not found",
		})
	}

	return c.JSON(fiber.Map{
		"guardian": guardian,
	})
}

// CreateGuardian creates a guardian profile for an existing user (admin only)
func (gc *GuardianController) CreateGuardian(c *fiber.Ctx) error {
	var req struct {
		UserID       uint   `json:"user_id" validate:"required"`
		FirstName    string `json:"first_name" validate:"required"`
		LastName     string `json:"last_name"`
		Phone        string `json:"phone"`
		Relationship string `json:"relationship" validate:"omitempty,oneof=father mother other"`
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
	if err := database.DB.Where("id = ? AND role = ?", req.UserID, "guardian").
		First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found or not a guardian",
		})
	}

	var existing models.Guardian
	if err := database.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Guardian profile already exists for this user",
		})
	}

	guardian := models.Guardian{
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	if err := database.DB.Create(&guardian).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create guardian profile",
		})
	}

	middleware.LogActivity(c, "CREATE", "guardians", guardian.ID, guardian)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Guardian profile created successfully",
		"guardian": guardian,
	})
}

// LinkStudent links a guardian to a student (admin only)
func (gc *GuardianController) LinkStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		StudentID uint `json:"student_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var guardian models.Guardian
	if err := database.DB.First(&guardian, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Guardian not found",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var existing models.GuardianStudent
	if err := database.DB.Where("guardian_id = ? AND student_id = ?", id, req.StudentID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Guardian is already linked to this student",
		})
	}

	link := models.GuardianStudent{GuardianID: id, StudentID: req.StudentID}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to link student",
		})
	}

	middleware.LogActivity(c, "CREATE", "guardian-students", link.ID, link)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student linked successfully",
		"link":    link,
	})
}

// UnlinkStudent removes a guardian-student link (admin only)
func (gc *GuardianController) UnlinkStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	studentID, err := parseIDParam(c, "student_id")
	if err != nil {
		return respondError(c, err)
	}

	var link models.GuardianStudent
	if err := database.DB.Where("guardian_id = ? AND student_id = ?", id, studentID).
		First(&link).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Link not found",
		})
	}

	if err := database.DB.Delete(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unlink student",
		})
	}

	middleware.LogActivity(c, "DELETE", "guardian-students", link.ID, link)

	return c.JSON(fiber.Map{
		"message": "Student unlinked successfully",
	})
}

// GetMyStudents returns the students linked to the authenticated guardian
func (gc *GuardianController) GetMyStudents(c *fiber.Ctx) error {
	guardian, err := middleware.CurrentGuardian(c)
	if err != nil {
		return respondError(c, err)
	}

	var links []models.GuardianStudent
	if err := database.DB.Where("guardian_id = ?", guardian.ID).
		Preload("Student").Preload("Student.StudyProgram").
		Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	students := make([]models.Student, 0, len(links))
	for _, l := range links {
		students = append(students, l.Student)
	}

	return c.JSON(fiber.Map{
		"students": students,
		"total":    len(students),
	})
}
