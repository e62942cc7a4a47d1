package controllers

import (
	"siakad_go/middleware"
	"siakad_go/storage"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UploadController issues presigned S3 PUT URLs. Files never pass through
// the API server; clients upload directly and send back the file URL.
type UploadController struct {
	storage *storage.StorageService
}

func NewUploadController() *UploadController {
	svc, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable; uploads disabled")
	}
	return &UploadController{storage: svc}
}

// Upload folders and the roles that may write into them. Students upload
// their own submissions and avatars; class content stays with staff.
var uploadFolderRoles = map[string][]string{
	"materials":   {"admin", "lecturer"},
	"assignments": {"admin", "lecturer"},
	"submissions": {"admin", "student"},
	"avatars":     {"admin", "lecturer", "student"},
}

func uploadFolderAllowed(folder, role string) bool {
	for _, r := range uploadFolderRoles[folder] {
		if r == role {
			return true
		}
	}
	return false
}

var allowedUploadExtensions = []string{
	"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx", "zip", "jpg", "jpeg", "png",
}

// PresignUpload returns a presigned PUT URL for a direct upload
func (uc *UploadController) PresignUpload(c *fiber.Ctx) error {
	if uc.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "File storage is not configured",
		})
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Folder   string `json:"folder" validate:"required"`
		Filename string `json:"filename" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	if _, known := uploadFolderRoles[req.Folder]; !known {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid upload folder",
		})
	}
	if !uploadFolderAllowed(req.Folder, claims.Role) {
		return respondError(c, utils.Unauthorized("Your role may not upload to this folder"))
	}
	if !utils.IsValidFileExtension(req.Filename, allowedUploadExtensions) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File type not allowed",
		})
	}

	upload, err := uc.storage.PresignUpload(req.Folder, claims.UserID, req.Filename)
	if err != nil {
		logrus.WithError(err).Error("Failed to presign upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to presign upload",
		})
	}

	return c.JSON(fiber.Map{
		"upload": upload,
	})
}
