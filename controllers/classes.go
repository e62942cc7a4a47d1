package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ClassController struct{}

// GetClasses returns class offerings with pagination
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var classes []models.Class
	var total int64

	query := database.DB.Model(&models.Class{})

	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if lecturerID := c.Query("lecturer_id"); lecturerID != "" {
		query = query.Where("lecturer_id = ?", lecturerID)
	}
	if yearID := c.Query("academic_year_id"); yearID != "" {
		query = query.Where("academic_year_id = ?", yearID)
	}

	query.Count(&total)

	if err := query.Preload("Course").Preload("Lecturer").Preload("AcademicYear").Preload("Schedules").
		Offset(offset).Limit(limit).Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetClass returns a specific class by ID
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.Preload("Course").Preload("Lecturer").
		Preload("AcademicYear").Preload("Schedules").
		First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	return c.JSON(fiber.Map{
		"class": class,
	})
}

// CreateClass creates a class offering (admin only)
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req struct {
		CourseID       uint   `json:"course_id" validate:"required"`
		LecturerID     uint   `json:"lecturer_id" validate:"required"`
		AcademicYearID uint   `json:"academic_year_id" validate:"required"`
		Name           string `json:"name" validate:"required"`
		Capacity       int    `json:"capacity" validate:"omitempty,min=1,max=200"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var course models.Course
	if err := database.DB.First(&course, req.CourseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	var lecturer models.Lecturer
	if err := database.DB.First(&lecturer, req.LecturerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lecturer not found",
		})
	}
	var year models.AcademicYear
	if err := database.DB.First(&year, req.AcademicYearID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Academic year not found",
		})
	}

	var existing models.Class
	if err := database.DB.Where("course_id = ? AND academic_year_id = ? AND name = ?",
		req.CourseID, req.AcademicYearID, req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Class with this name already exists for the course",
		})
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 40
	}

	class := models.Class{
		CourseID:       req.CourseID,
		LecturerID:     req.LecturerID,
		AcademicYearID: req.AcademicYearID,
		Name:           req.Name,
		Capacity:       capacity,
	}
	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class",
		})
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, class)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   class,
	})
}

// UpdateClass updates an existing class (admin only)
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var updateData models.Class
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&class).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update class",
		})
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
		"class":   class,
	})
}

// DeleteClass soft deletes a class (admin only)
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var enrolled int64
	database.DB.Model(&models.ClassStudent{}).
		Where("class_id = ? AND status = ?", id, "active").Count(&enrolled)
	if enrolled > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a class with enrolled students",
		})
	}

	if err := database.DB.Delete(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete class",
		})
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, class)

	return c.JSON(fiber.Map{
		"message": "Class deleted successfully",
	})
}

// AddSchedule adds a weekly meeting slot to a class (admin only)
func (cc *ClassController) AddSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
		StartTime string `json:"start_time" validate:"required,len=5"`
		EndTime   string `json:"end_time" validate:"required,len=5"`
		Room      string `json:"room"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	if req.EndTime <= req.StartTime {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "End time must be after start time",
		})
	}

	schedule := models.ClassSchedule{
		ClassID:   id,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := database.DB.Create(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create schedule",
		})
	}

	middleware.LogActivity(c, "CREATE", "class-schedules", schedule.ID, schedule)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Schedule created successfully",
		"schedule": schedule,
	})
}

// RemoveSchedule removes a meeting slot from a class (admin only)
func (cc *ClassController) RemoveSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	scheduleID, err := parseIDParam(c, "schedule_id")
	if err != nil {
		return respondError(c, err)
	}

	var schedule models.ClassSchedule
	if err := database.DB.Where("id = ? AND class_id = ?", scheduleID, id).
		First(&schedule).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	if err := database.DB.Delete(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete schedule",
		})
	}

	middleware.LogActivity(c, "DELETE", "class-schedules", schedule.ID, schedule)

	return c.JSON(fiber.Map{
		"message": "Schedule deleted successfully",
	})
}

// GetRoster returns the students enrolled in a class. Lecturers may only
// view rosters of their own classes.
func (cc *ClassController) GetRoster(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role == "lecturer" && (user.Lecturer == nil || user.Lecturer.ID != class.LecturerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You may only view rosters of your own classes",
		})
	}

	var roster []models.ClassStudent
	if err := database.DB.Where("class_id = ?", id).
		Preload("Student").Preload("Student.StudyProgram").
		Find(&roster).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch roster",
		})
	}

	return c.JSON(fiber.Map{
		"roster": roster,
		"total":  len(roster),
	})
}

// DropStudent marks a roster row as dropped (admin only)
func (cc *ClassController) DropStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	studentID, err := parseIDParam(c, "student_id")
	if err != nil {
		return respondError(c, err)
	}

	var row models.ClassStudent
	if err := database.DB.Where("class_id = ? AND student_id = ?", id, studentID).
		First(&row).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found on roster",
		})
	}

	if err := database.DB.Model(&row).Update("status", "dropped").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to drop student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "class-students", row.ID, fiber.Map{"status": "dropped"})

	return c.JSON(fiber.Map{
		"message": "Student dropped from class",
	})
}
