package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

// MajorController manages the catalog hierarchy: majors, study programs
// and curricula.
type MajorController struct{}

// GetMajors returns all majors with their study programs
func (mc *MajorController) GetMajors(c *fiber.Ctx) error {
	var majors []models.Major
	query := database.DB.Model(&models.Major{}).Preload("StudyPrograms")

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Find(&majors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch majors",
		})
	}

	return c.JSON(fiber.Map{
		"majors": majors,
		"total":  len(majors),
	})
}

// CreateMajor creates a new major (admin only)
func (mc *MajorController) CreateMajor(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var existing models.Major
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Major code already exists",
		})
	}

	major := models.Major{Name: req.Name, Code: req.Code, Active: true}
	if err := database.DB.Create(&major).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create major",
		})
	}

	middleware.LogActivity(c, "CREATE", "majors", major.ID, major)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Major created successfully",
		"major":   major,
	})
}

// UpdateMajor updates an existing major (admin only)
func (mc *MajorController) UpdateMajor(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var major models.Major
	if err := database.DB.First(&major, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Major not found",
		})
	}

	var updateData models.Major
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Code != "" && updateData.Code != major.Code {
		var existing models.Major
		if err := database.DB.Where("code = ? AND id != ?", updateData.Code, major.ID).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Major code already exists",
			})
		}
	}

	if err := database.DB.Model(&major).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update major",
		})
	}

	middleware.LogActivity(c, "UPDATE", "majors", major.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Major updated successfully",
		"major":   major,
	})
}

// DeleteMajor soft deletes a major (admin only)
func (mc *MajorController) DeleteMajor(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var major models.Major
	if err := database.DB.First(&major, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Major not found",
		})
	}

	if err := database.DB.Delete(&major).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete major",
		})
	}

	middleware.LogActivity(c, "DELETE", "majors", major.ID, major)

	return c.JSON(fiber.Map{
		"message": "Major deleted successfully",
	})
}

// GetStudyPrograms returns study programs, optionally filtered by major
func (mc *MajorController) GetStudyPrograms(c *fiber.Ctx) error {
	var programs []models.StudyProgram
	query := database.DB.Model(&models.StudyProgram{}).Preload("Major")

	if majorID := c.Query("major_id"); majorID != "" {
		query = query.Where("major_id = ?", majorID)
	}

	if err := query.Find(&programs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch study programs",
		})
	}

	return c.JSON(fiber.Map{
		"study_programs": programs,
		"total":          len(programs),
	})
}

// CreateStudyProgram creates a study program under a major (admin only)
func (mc *MajorController) CreateStudyProgram(c *fiber.Ctx) error {
	var req struct {
		MajorID uint   `json:"major_id" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Code    string `json:"code" validate:"required"`
		Degree  string `json:"degree" validate:"required,oneof=D3 D4 S1 S2 S3"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var major models.Major
	if err := database.DB.First(&major, req.MajorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Major not found",
		})
	}

	var existing models.StudyProgram
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Study program code already exists",
		})
	}

	program := models.StudyProgram{
		MajorID: req.MajorID,
		Name:    req.Name,
		Code:    req.Code,
		Degree:  req.Degree,
		Active:  true,
	}
	if err := database.DB.Create(&program).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create study program",
		})
	}

	middleware.LogActivity(c, "CREATE", "study-programs", program.ID, program)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Study program created successfully",
		"study_program": program,
	})
}

// GetCurricula returns curricula, optionally filtered by study program
func (mc *MajorController) GetCurricula(c *fiber.Ctx) error {
	var curricula []models.Curriculum
	query := database.DB.Model(&models.Curriculum{}).Preload("StudyProgram")

	if programID := c.Query("study_program_id"); programID != "" {
		query = query.Where("study_program_id = ?", programID)
	}

	if err := query.Find(&curricula).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch curricula",
		})
	}

	return c.JSON(fiber.Map{
		"curricula": curricula,
		"total":     len(curricula),
	})
}

// CreateCurriculum creates a curriculum version for a study program (admin only)
func (mc *MajorController) CreateCurriculum(c *fiber.Ctx) error {
	var req struct {
		StudyProgramID uint   `json:"study_program_id" validate:"required"`
		Name           string `json:"name" validate:"required"`
		Year           int    `json:"year" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var program models.StudyProgram
	if err := database.DB.First(&program, req.StudyProgramID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Study program not found",
		})
	}

	curriculum := models.Curriculum{
		StudyProgramID: req.StudyProgramID,
		Name:           req.Name,
		Year:           req.Year,
		Active:         true,
	}
	if err := database.DB.Create(&curriculum).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create curriculum",
		})
	}

	middleware.LogActivity(c, "CREATE", "curricula", curriculum.ID, curriculum)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Curriculum created successfully",
		"curriculum": curriculum,
	})
}
