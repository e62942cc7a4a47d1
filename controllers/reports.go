package controllers

import (
	"fmt"
	"strings"
	"time"

	"siakad_go/database"
	"siakad_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ReportController exports administrative recaps as xlsx workbooks.
type ReportController struct{}

// ExportAttendanceRecap exports one class's attendance as a grid: one row
// per enrolled student, one column per session (admin or teaching lecturer).
func (rc *ReportController) ExportAttendanceRecap(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	class, err := requireClassOwnership(c, id)
	if err != nil {
		return respondError(c, err)
	}
	database.DB.Preload("Course").First(class, class.ID)

	var roster []models.ClassStudent
	if err := database.DB.Where("class_id = ? AND status = ?", id, "active").
		Preload("Student").Order("student_id ASC").Find(&roster).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch roster",
		})
	}

	var sessions []models.AttendanceSession
	if err := database.DB.
		Joins("JOIN class_schedules ON class_schedules.id = attendance_sessions.class_schedule_id").
		Where("class_schedules.class_id = ?", id).
		Order("attendance_sessions.opened_at ASC").
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	// records indexed by (session, student)
	recordOf := make(map[uint]map[uint]string)
	for _, s := range sessions {
		var records []models.AttendanceRecord
		database.DB.Where("attendance_session_id = ?", s.ID).Find(&records)
		m := make(map[uint]string, len(records))
		for _, r := range records {
			m[r.StudentID] = r.Status
		}
		recordOf[s.ID] = m
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", "NIM")
	f.SetCellValue(sheet, "B1", "Name")
	for i, s := range sessions {
		col, _ := excelize.ColumnNumberToName(i + 3)
		f.SetCellValue(sheet, fmt.Sprintf("%s1", col), s.OpenedAt.Format("2006-01-02"))
	}

	for row, r := range roster {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), r.Student.NIM)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2),
			fmt.Sprintf("%s %s", r.Student.FirstName, r.Student.LastName))
		for i, s := range sessions {
			col, _ := excelize.ColumnNumberToName(i + 3)
			status := recordOf[s.ID][r.StudentID]
			if status == "" {
				status = "-"
			}
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row+2), status)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx",
		class.Course.Code, class.Name, time.Now().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ExportKrsRecap exports every KRS header of an academic year (admin only)
func (rc *ReportController) ExportKrsRecap(c *fiber.Ctx) error {
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

	var headers []models.KrsHeader
	if err := database.DB.Where("academic_year_id = ?", id).
		Preload("Student").
		Preload("Details").
		Preload("Details.Class").
		Preload("Details.Class.Course").
		Order("student_id ASC").
		Find(&headers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch KRS headers",
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	titles := []string{"NIM", "Name", "Status", "Courses", "Total Credits", "Decided At", "Note"}
	for i, t := range titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s1", col), t)
	}

	for row, h := range headers {
		credits := 0
		courses := ""
		for _, d := range h.Details {
			credits += d.Class.Course.Credits
			if courses != "" {
				courses += ", "
			}
			courses += d.Class.Course.Code
		}
		decidedAt := ""
		if h.DecidedAt != nil {
			decidedAt = h.DecidedAt.Format("2006-01-02 15:04")
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), h.Student.NIM)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2),
			fmt.Sprintf("%s %s", h.Student.FirstName, h.Student.LastName))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), h.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row+2), courses)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row+2), credits)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row+2), decidedAt)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row+2), h.Note)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	filename := fmt.Sprintf("krs_%s_%s.xlsx",
		strings.ReplaceAll(year.Name, "/", "-"), year.Semester)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
