package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct{}

// GetCourses returns courses from the catalog (PUBLIC endpoint)
func (cc *CourseController) GetCourses(c *fiber.Ctx) error {
	var courses []models.Course

	query := database.DB.Model(&models.Course{})

	if curriculumID := c.Query("curriculum_id"); curriculumID != "" {
		query = query.Where("curriculum_id = ?", curriculumID)
	}

	// Filter by status (default to active)
	status := c.Query("status", "active")
	query = query.Where("status = ?", status)

	if semester := c.Query("semester"); semester != "" {
		query = query.Where("semester = ?", semester)
	}

	query = query.Preload("Curriculum").Preload("Prerequisites").Preload("Prerequisites.Prerequisite")

	if err := query.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch courses",
		})
	}

	return c.JSON(fiber.Map{
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourse returns a specific course by ID (PUBLIC endpoint)
func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var course models.Course
	if err := database.DB.Preload("Curriculum").
		Preload("Prerequisites").Preload("Prerequisites.Prerequisite").
		First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"course": course,
	})
}

// CreateCourse creates a new course (admin only)
func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	var req struct {
		CurriculumID uint   `json:"curriculum_id" validate:"required"`
		Code         string `json:"code" validate:"required"`
		Name         string `json:"name" validate:"required"`
		Credits      int    `json:"credits" validate:"required,min=1,max=6"`
		Semester     int    `json:"semester" validate:"min=0,max=8"`
		Description  string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var curriculum models.Curriculum
	if err := database.DB.First(&curriculum, req.CurriculumID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Curriculum not found",
		})
	}

	var existing models.Course
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Course code already exists",
		})
	}

	course := models.Course{
		CurriculumID: req.CurriculumID,
		Code:         req.Code,
		Name:         req.Name,
		Credits:      req.Credits,
		Semester:     req.Semester,
		Description:  req.Description,
		Status:       "active",
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create course",
		})
	}

	middleware.LogActivity(c, "CREATE", "courses", course.ID, course)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created successfully",
		"course":  course,
	})
}

// UpdateCourse updates an existing course (admin only)
func (cc *CourseController) UpdateCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var course models.Course
	if err := database.DB.First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	var updateData models.Course
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Code != "" && updateData.Code != course.Code {
		var existing models.Course
		if err := database.DB.Where("code = ? AND id != ?", updateData.Code, course.ID).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Course code already exists",
			})
		}
	}

	if err := database.DB.Model(&course).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update course",
		})
	}

	middleware.LogActivity(c, "UPDATE", "courses", course.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Course updated successfully",
		"course":  course,
	})
}

// DeleteCourse soft deletes a course (admin only)
func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var course models.Course
	if err := database.DB.First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete course",
		})
	}

	middleware.LogActivity(c, "DELETE", "courses", course.ID, course)

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}

// AddPrerequisite adds a prerequisite edge to a course (admin only)
func (cc *CourseController) AddPrerequisite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		PrerequisiteID uint `json:"prerequisite_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	if req.PrerequisiteID == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A course cannot be its own prerequisite",
		})
	}

	var course, prereq models.Course
	if err := database.DB.First(&course, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if err := database.DB.First(&prereq, req.PrerequisiteID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prerequisite course not found",
		})
	}

	var existing models.Prerequisite
	if err := database.DB.Where("course_id = ? AND prerequisite_id = ?", id, req.PrerequisiteID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Prerequisite already exists",
		})
	}

	edge := models.Prerequisite{CourseID: id, PrerequisiteID: req.PrerequisiteID}
	if err := database.DB.Create(&edge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add prerequisite",
		})
	}

	middleware.LogActivity(c, "CREATE", "prerequisites", edge.ID, edge)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Prerequisite added successfully",
		"prerequisite": edge,
	})
}

// RemovePrerequisite removes a prerequisite edge (admin only)
func (cc *CourseController) RemovePrerequisite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	prereqID, err := parseIDParam(c, "prereq_id")
	if err != nil {
		return respondError(c, err)
	}

	var edge models.Prerequisite
	if err := database.DB.Where("course_id = ? AND prerequisite_id = ?", id, prereqID).
		First(&edge).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prerequisite not found",
		})
	}

	if err := database.DB.Delete(&edge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove prerequisite",
		})
	}

	middleware.LogActivity(c, "DELETE", "prerequisites", edge.ID, edge)

	return c.JSON(fiber.Map{
		"message": "Prerequisite removed successfully",
	})
}
