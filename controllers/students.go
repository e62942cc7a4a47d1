package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if programID := c.Query("study_program_id"); programID != "" {
		query = query.Where("study_program_id = ?", programID)
	}
	if entryYear := c.Query("entry_year"); entryYear != "" {
		query = query.Where("entry_year = ?", entryYear)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("nim LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Preload("User").Preload("StudyProgram").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var student models.Student
	if err := database.DB.Preload("User").Preload("StudyProgram").Preload("StudyProgram.Major").
		First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// UpdateStudent updates an existing student profile (admin only)
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Don't allow changing UserID or NIM through updates
	updateData.UserID = student.UserID
	updateData.NIM = student.NIM

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student profile",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student profile updated successfully",
		"student": student,
	})
}

// GetStudentClasses returns the classes on the student's roster. Students
// may only fetch their own; admins and lecturers may fetch any.
func (sc *StudentController) GetStudentClasses(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role == "student" && (user.Student == nil || user.Student.ID != id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You may only view your own classes",
		})
	}

	var rosters []models.ClassStudent
	if err := database.DB.Where("student_id = ? AND status = ?", id, "active").
		Preload("Class").
		Preload("Class.Course").
		Preload("Class.Lecturer").
		Preload("Class.Schedules").
		Preload("Class.AcademicYear").
		Find(&rosters).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	classes := make([]models.Class, 0, len(rosters))
	for _, r := range rosters {
		classes = append(classes, r.Class)
	}

	return c.JSON(fiber.Map{
		"classes": classes,
		"total":   len(classes),
	})
}
