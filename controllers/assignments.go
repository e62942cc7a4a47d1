package controllers

import (
	"time"

	"siakad_go/database"
	"siakad_go/middleware"
	"siakad_go/models"
	"siakad_go/utils"

	"github.com/gofiber/fiber/v2"
)

type AssignmentController struct{}

// GetAssignments lists the assignments of a class
func (ac *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var assignments []models.Assignment
	if err := database.DB.Where("class_id = ?", id).
		Order("deadline ASC").Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch assignments",
		})
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetAssignment returns one assignment. The teaching lecturer also gets
// the submissions; students get their own submission only.
func (ac *AssignmentController) GetAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var assignment models.Assignment
	if err := database.DB.Preload("Class").First(&assignment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"assignment": assignment}

	switch user.Role {
	case "admin":
		var submissions []models.AssignmentSubmission
		database.DB.Where("assignment_id = ?", id).Preload("Student").Find(&submissions)
		resp["submissions"] = submissions
	case "lecturer":
		if user.Lecturer != nil && user.Lecturer.ID == assignment.Class.LecturerID {
			var submissions []models.AssignmentSubmission
			database.DB.Where("assignment_id = ?", id).Preload("Student").Find(&submissions)
			resp["submissions"] = submissions
		}
	case "student":
		if user.Student != nil {
			var submission models.AssignmentSubmission
			if err := database.DB.Where("assignment_id = ? AND student_id = ?", id, user.Student.ID).
				First(&submission).Error; err == nil {
				resp["my_submission"] = submission
			}
		}
	}

	return c.JSON(resp)
}

// CreateAssignment creates an assignment on a class (teaching lecturer only)
func (ac *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := requireClassOwnership(c, id); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		FileURL     string     `json:"file_url" validate:"omitempty,url"`
		Deadline    *time.Time `json:"deadline"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	assignment := models.Assignment{
		ClassID:     id,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		Deadline:    req.Deadline,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create assignment",
		})
	}

	middleware.LogActivity(c, "CREATE", "assignments", assignment.ID, assignment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// UpdateAssignment updates an assignment (teaching lecturer only)
func (ac *AssignmentController) UpdateAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if _, err := requireClassOwnership(c, assignment.ClassID); err != nil {
		return respondError(c, err)
	}

	var updateData models.Assignment
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updateData.ClassID = assignment.ClassID

	if err := database.DB.Model(&assignment).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update assignment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "assignments", assignment.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "Assignment updated successfully",
		"assignment": assignment,
	})
}

// DeleteAssignment removes an assignment (teaching lecturer only)
func (ac *AssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if _, err := requireClassOwnership(c, assignment.ClassID); err != nil {
		return respondError(c, err)
	}

	if err := database.DB.Delete(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete assignment",
		})
	}

	middleware.LogActivity(c, "DELETE", "assignments", assignment.ID, assignment)

	return c.JSON(fiber.Map{
		"message": "Assignment deleted successfully",
	})
}

// Submit upserts the authenticated student's submission. Resubmission is
// allowed until the submission is graded or the deadline passes.
func (ac *AssignmentController) Submit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if assignment.Deadline != nil && time.Now().After(*assignment.Deadline) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Assignment deadline has passed",
		})
	}

	// Enrollment check against the class roster
	var roster models.ClassStudent
	if err := database.DB.Where("class_id = ? AND student_id = ? AND status = ?",
		assignment.ClassID, student.ID, "active").First(&roster).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not enrolled in this class",
		})
	}

	var req struct {
		FileURL string `json:"file_url" validate:"required,url"`
		Note    string `json:"note" validate:"max=500"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	var submission models.AssignmentSubmission
	err = database.DB.Where("assignment_id = ? AND student_id = ?", id, student.ID).
		First(&submission).Error
	if err == nil {
		if submission.Grade != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Submission has already been graded",
			})
		}
		submission.FileURL = req.FileURL
		submission.Note = req.Note
		if err := database.DB.Save(&submission).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update submission",
			})
		}
	} else {
		submission = models.AssignmentSubmission{
			AssignmentID: id,
			StudentID:    student.ID,
			FileURL:      req.FileURL,
			Note:         req.Note,
		}
		if err := database.DB.Create(&submission).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create submission",
			})
		}
	}

	middleware.LogActivity(c, "CREATE", "assignment-submissions", submission.ID, submission)

	return c.JSON(fiber.Map{
		"message":    "Assignment submitted successfully",
		"submission": submission,
	})
}

// DeleteSubmission removes the student's own ungraded submission
func (ac *AssignmentController) DeleteSubmission(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	student, err := middleware.CurrentStudent(c)
	if err != nil {
		return respondError(c, err)
	}

	var submission models.AssignmentSubmission
	if err := database.DB.Where("assignment_id = ? AND student_id = ?", id, student.ID).
		First(&submission).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	if submission.Grade != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Submission has already been graded",
		})
	}

	if err := database.DB.Delete(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete submission",
		})
	}

	middleware.LogActivity(c, "DELETE", "assignment-submissions", submission.ID, submission)

	return c.JSON(fiber.Map{
		"message": "Submission deleted successfully",
	})
}

// GradeSubmission records a grade on a submission (teaching lecturer only)
func (ac *AssignmentController) GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := parseIDParam(c, "submission_id")
	if err != nil {
		return respondError(c, err)
	}

	lecturer, err := middleware.CurrentLecturer(c)
	if err != nil {
		return respondError(c, err)
	}

	var submission models.AssignmentSubmission
	if err := database.DB.Preload("Assignment").Preload("Assignment.Class").
		First(&submission, submissionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	if submission.Assignment.Class.LecturerID != lecturer.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not teach this class",
		})
	}

	var req struct {
		Grade float64 `json:"grade" validate:"min=0,max=100"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, err)
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	submission.Grade = &req.Grade
	submission.GradedBy = &claims.UserID
	submission.GradedAt = &now
	if err := database.DB.Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to grade submission",
		})
	}

	middleware.LogActivity(c, "UPDATE", "assignment-submissions", submission.ID, fiber.Map{"grade": req.Grade})

	return c.JSON(fiber.Map{
		"message":    "Submission graded successfully",
		"submission": submission,
	})
}
