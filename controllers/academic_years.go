package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AcademicYearController struct{}

// GetAcademicYears returns all academic years, newest first
func (ac *AcademicYearController) GetAcademicYears(c *fiber.Ctx) error {
	var years []models.AcademicYear
	if err := database.DB.Order("name DESC, semester DESC").Find(&years).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch academic years",
		})
	}

	return c.JSON(fiber.Map{
		"academic_years": years,
		"total":          len(years),
	})
}

// GetActiveAcademicYear returns the currently active academic year
func (ac *AcademicYearController) GetActiveAcademicYear(c *fiber.Ctx) error {
	var year models.AcademicYear
	if err := database.DB.Where("active = ?", true).First(&year).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active academic year",
		})
	}

	return c.JSON(fiber.Map{
		"academic_year": year,
	})
}

// CreateAcademicYear creates a new academic year (admin only)
func (ac *AcademicYearController) CreateAcademicYear(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Semester string `json:"semester" validate:"required,oneof=odd even"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var existing models.AcademicYear
	if err := database.DB.Where("name = ? AND semester = ?", req.Name, req.Semester).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Academic year already exists",
		})
	}

	year := models.AcademicYear{Name: req.Name, Semester: req.Semester}
	if err := database.DB.Create(&year).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create academic year",
		})
	}

	middleware.LogActivity(c, "CREATE", "academic-years", year.ID, year)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Academic year created successfully",
		"academic_year": year,
	})
}

// ActivateAcademicYear makes one year active and deactivates the rest
// (admin only). At most one active year at a time.
func (ac *AcademicYearController) ActivateAcademicYear(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var year models.AcademicYear
	if err := database.DB.First(&year, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Academic year not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AcademicYear{}).Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&year).Update("active", true).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to activate academic year",
		})
	}

	middleware.LogActivity(c, "UPDATE", "academic-years", year.ID, fiber.Map{"active": true})

	return c.JSON(fiber.Map{
		"message":       "Academic year activated successfully",
		"academic_year": year,
	})
}
