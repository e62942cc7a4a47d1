package controllers

import (
	"siakad_go/middleware"
	"siakad_go/services"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

// AttendanceController exposes the roll-call lifecycle over HTTP. Clients
// poll GET /classes/:id/attendance/active to discover open sessions.
type AttendanceController struct {
	service *services.AttendanceService
}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{service: services.NewAttendanceService()}
}

// OpenSession opens a roll-call window on a class schedule (lecturer only)
func (ac *AttendanceController) OpenSession(c *fiber.Ctx) error {
	lecturer, err := middleware.CurrentLecturer(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		ClassScheduleID uint   `json:"class_schedule_id" validate:"required"`
		Topic           string `json:"topic"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	session, err := ac.service.OpenSession(req.ClassScheduleID, lecturer.ID, req.Topic)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance-sessions", session.ID, session)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Attendance session opened successfully",
		"session": session,
	})
}

// CloseSession closes a session before its window expires (lecturer only)
func (ac *AttendanceController) CloseSession(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	lecturer, err := middleware.CurrentLecturer(c)
	if err != nil {
		return respondError(c, err)
	}

	session, err := ac.service.CloseSession(id, lecturer.ID)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "attendance-sessions", session.ID, fiber.Map{"status": session.Status})

	return c.JSON(fiber.Map{
		"message": "Attendance session closed successfully",
		"session": session,
	})
}

// Record upserts the authenticated student's attendance for a session
func (ac *AttendanceController) Record(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	record, err := ac.service.Record(id, student.ID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance-records", record.ID, record)

	return c.JSON(fiber.Map{
		"message": "Attendance recorded successfully",
		"record":  record,
	})
}

// GetActiveSession returns the class's OPEN session, if any. Returns
// session: null when nothing is open; clients poll this endpoint.
func (ac *AttendanceController) GetActiveSession(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	session, err := ac.service.ActiveSession(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

// GetSessionRecords lists a session's records (teaching lecturer only)
func (ac *AttendanceController) GetSessionRecords(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	lecturer, err := middleware.CurrentLecturer(c)
	if err != nil {
		return respondError(c, err)
	}

	records, err := ac.service.SessionRecords(id, lecturer.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"records": records,
		"total":   len(records),
	})
}

// GetMyHistory lists the authenticated student's records for a class
func (ac *AttendanceController) GetMyHistory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	records, err := ac.service.StudentHistory(student.ID, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"records": records,
		"total":   len(records),
	})
}
