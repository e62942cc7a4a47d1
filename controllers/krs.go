package controllers

import (
	"siakad_go/middleware"
	"siakad_go/services"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

// KrsController exposes the enrollment workflow. Business rules live in
// services.KrsService; handlers only translate HTTP.
type KrsController struct {
	service *services.KrsService
}

func NewKrsController() *KrsController {
	return &KrsController{service: services.NewKrsService()}
}

// CreateHeader opens a DRAFT KRS for the authenticated student in the
// active academic year
func (kc *KrsController) CreateHeader(c *fiber.Ctx) error {
	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	header, err := kc.service.CreateHeader(student.ID)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "krs-headers", header.ID, header)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "KRS created successfully",
		"krs":     header,
	})
}

// GetMyHeaders lists the authenticated student's KRS history
func (kc *KrsController) GetMyHeaders(c *fiber.Ctx) error {
	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	headers, err := kc.service.HeadersForStudent(student.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"krs_headers": headers,
		"total":       len(headers),
	})
}

// GetHeader returns one header with details. Students may only see their
// own; admins and lecturers may see any.
func (kc *KrsController) GetHeader(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	header, err := kc.service.GetHeader(id)
	if err != nil {
		return respondError(c, err)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role == "student" && (user.Student == nil || user.Student.ID != header.StudentID) {
		return respondError(c, utils.Unauthorized("KRS belongs to another student"))
	}

	return c.JSON(fiber.Map{
		"krs": header,
	})
}

// GetPendingHeaders lists DRAFT headers awaiting a decision (admin only)
func (kc *KrsController) GetPendingHeaders(c *fiber.Ctx) error {
	headers, err := kc.service.PendingHeaders()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"krs_headers": headers,
		"total":       len(headers),
	})
}

// AddDetail adds a class to the authenticated student's DRAFT header
func (kc *KrsController) AddDetail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		ClassID uint `json:"class_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	detail, err := kc.service.AddDetail(id, req.ClassID, student.ID)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "krs-details", detail.ID, detail)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class added to KRS successfully",
		"detail":  detail,
	})
}

// RemoveDetail removes a class from the student's DRAFT header
func (kc *KrsController) RemoveDetail(c *fiber.Ctx) error {
	detailID, err := parseIDParam(c, "detail_id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := kc.service.RemoveDetail(detailID, student.ID); err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "krs-details", detailID, nil)

	return c.JSON(fiber.Map{
		"message": "Class removed from KRS successfully",
	})
}

// SetStatus applies an admin decision (APPROVED or REJECTED)
func (kc *KrsController) SetStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status" validate:"required"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	header, err := kc.service.SetStatus(id, req.Status, claims.UserID, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "krs-headers", header.ID, fiber.Map{
		"status": req.Status,
		"note":   req.Note,
	})

	return c.JSON(fiber.Map{
		"message": "KRS status updated successfully",
		"krs":     header,
	})
}

// SetGrade records a final grade on a detail (teaching lecturer only)
func (kc *KrsController) SetGrade(c *fiber.Ctx) error {
	detailID, err := parseIDParam(c, "detail_id")
	if err != nil {
		return respondError(c, err)
	}

	lecturer, err := middleware.CurrentLecturer(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Grade string `json:"grade" validate:"required,max=5"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	detail, err := kc.service.SetGrade(detailID, req.Grade, lecturer.ID)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "krs-details", detail.ID, fiber.Map{"grade": req.Grade})

	return c.JSON(fiber.Map{
		"message": "Grade recorded successfully",
		"detail":  detail,
	})
}
