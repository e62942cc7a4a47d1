package controllers

import (
	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

type MaterialController struct{}

// requireClassOwnership loads a class and checks the caller teaches it.
// Admins pass the check for any class.
func requireClassOwnership(c *fiber.Ctx, classID uint) (*models.Class, error) {
	var class models.Class
	if err := database.DB.First(&class, classID).Error; err != nil {
		return nil, utils.NotFound("Class not found")
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Role == "admin" {
		return &class, nil
	}
	if user.Lecturer == nil || user.Lecturer.ID != class.LecturerID {
		return nil, utils.Unauthorized("You do not teach this class")
	}
	return &class, nil
}

// GetMaterials lists the materials of a class
func (mc *MaterialController) GetMaterials(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var materials []models.Material
	if err := database.DB.Where("class_id = ?", id).
		Order("created_at DESC").Find(&materials).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch materials",
		})
	}

	return c.JSON(fiber.Map{
		"materials": materials,
		"total":     len(materials),
	})
}

// CreateMaterial publishes a material on a class (teaching lecturer only)
func (mc *MaterialController) CreateMaterial(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := requireClassOwnership(c, id); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		FileURL     string `json:"file_url" validate:"omitempty,url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	material := models.Material{
		ClassID:     id,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
	}
	if err := database.DB.Create(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create material",
		})
	}

	middleware.LogActivity(c, "CREATE", "materials", material.ID, material)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Material created successfully",
		"material": material,
	})
}

// UpdateMaterial updates a material (teaching lecturer only)
func (mc *MaterialController) UpdateMaterial(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var material models.Material
	if err := database.DB.First(&material, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Material not found",
		})
	}

	if _, err := requireClassOwnership(c, material.ClassID); err != nil {
		return respondError(c, err)
	}

	var updateData models.Material
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updateData.ClassID = material.ClassID

	if err := database.DB.Model(&material).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update material",
		})
	}

	middleware.LogActivity(c, "UPDATE", "materials", material.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Material updated successfully",
		"material": material,
	})
}

// DeleteMaterial removes a material (teaching lecturer only)
func (mc *MaterialController) DeleteMaterial(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var material models.Material
	if err := database.DB.First(&material, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Material not found",
		})
	}

	if _, err := requireClassOwnership(c, material.ClassID); err != nil {
		return respondError(c, err)
	}

	if err := database.DB.Delete(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete material",
		})
	}

	middleware.LogActivity(c, "DELETE", "materials", material.ID, material)

	return c.JSON(fiber.Map{
		"message": "Material deleted successfully",
	})
}
