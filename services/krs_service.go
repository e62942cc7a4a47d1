package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"siakad_go/database"
	"siakad_go/models"
	"siakad_go/utils"
)

// KrsService implements the enrollment workflow: a student drafts a KRS
// header for the active academic year, fills it with classes, and an admin
// decides it. Status never returns to DRAFT once decided.
type KrsService struct {
	db *gorm.DB
}

func NewKrsService() *KrsService {
	return &KrsService{db: database.DB}
}

// IsDecision reports whether status is a valid admin decision target.
// DRAFT is deliberately not accepted: decided headers never reopen.
func IsDecision(status string) bool {
	return status == models.KrsStatusApproved || status == models.KrsStatusRejected
}

// PassesPrerequisite reports whether a recorded grade fulfils a prerequisite
func PassesPrerequisite(grade *string) bool {
	if grade == nil {
		return false
	}
	return *grade != "" && *grade != "E"
}

// CreateHeader creates a DRAFT header for the student in the active
// academic year. One header per (student, year).
func (s *KrsService) CreateHeader(studentID uint) (*models.KrsHeader, error) {
	var year models.AcademicYear
	if err := s.db.Where("active = ?", true).First(&year).Error; err != nil {
		return nil, utils.NotFound("No active academic year")
	}

	var existing models.KrsHeader
	if err := s.db.Where("student_id = ? AND academic_year_id = ?", studentID, year.ID).
		First(&existing).Error; err == nil {
		return nil, utils.Conflict("KRS already exists for the active academic year")
	}

	header := models.KrsHeader{
		StudentID:      studentID,
		AcademicYearID: year.ID,
		Status:         models.KrsStatusDraft,
	}
	if err := s.db.Create(&header).Error; err != nil {
		return nil, err
	}

	header.Details = []models.KrsDetail{}
	return &header, nil
}

// AddDetail adds a class to the student's own DRAFT header
func (s *KrsService) AddDetail(headerID, classID, studentID uint) (*models.KrsDetail, error) {
	var header models.KrsHeader
	if err := s.db.First(&header, headerID).Error; err != nil {
		return nil, utils.NotFound("KRS header not found")
	}
	if header.StudentID != studentID {
		return nil, utils.Unauthorized("KRS belongs to another student")
	}
	if header.Status != models.KrsStatusDraft {
		return nil, utils.Conflict("KRS is no longer editable")
	}

	var class models.Class
	if err := s.db.Preload("Course").First(&class, classID).Error; err != nil {
		return nil, utils.NotFound("Class not found")
	}
	if class.AcademicYearID != header.AcademicYearID {
		return nil, utils.Conflict("Class is not offered in the KRS academic year")
	}

	// Same class twice
	var dup models.KrsDetail
	if err := s.db.Where("krs_header_id = ? AND class_id = ?", headerID, classID).
		First(&dup).Error; err == nil {
		return nil, utils.Conflict("Class already added to this KRS")
	}

	// Same course through a different class
	var courseCount int64
	s.db.Model(&models.KrsDetail{}).
		Joins("JOIN classes ON classes.id = krs_details.class_id").
		Where("krs_details.krs_header_id = ? AND classes.course_id = ?", headerID, class.CourseID).
		Count(&courseCount)
	if courseCount > 0 {
		return nil, utils.Conflict("Course already taken through another class")
	}

	if err := s.checkPrerequisites(studentID, class.CourseID); err != nil {
		return nil, err
	}

	detail := models.KrsDetail{
		KrsHeaderID: headerID,
		ClassID:     classID,
	}
	if err := s.db.Create(&detail).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Class").Preload("Class.Course").First(&detail, detail.ID)
	return &detail, nil
}

// checkPrerequisites verifies every prerequisite course was passed in a
// previously approved KRS
func (s *KrsService) checkPrerequisites(studentID, courseID uint) error {
	var prereqs []models.Prerequisite
	if err := s.db.Preload("Prerequisite").Where("course_id = ?", courseID).
		Find(&prereqs).Error; err != nil {
		return err
	}

	for _, p := range prereqs {
		var details []models.KrsDetail
		err := s.db.
			Joins("JOIN krs_headers ON krs_headers.id = krs_details.krs_header_id").
			Joins("JOIN classes ON classes.id = krs_details.class_id").
			Where("krs_headers.student_id = ? AND krs_headers.status = ? AND classes.course_id = ?",
				studentID, models.KrsStatusApproved, p.PrerequisiteID).
			Find(&details).Error
		if err != nil {
			return err
		}

		passed := false
		for _, d := range details {
			if PassesPrerequisite(d.Grade) {
				passed = true
				break
			}
		}
		if !passed {
			return utils.Conflict(fmt.Sprintf("Prerequisite not fulfilled: %s", p.Prerequisite.Name))
		}
	}
	return nil
}

// RemoveDetail deletes a detail from the student's own header. Deletion is
// only permitted while the header is still DRAFT; the check lives here at
// the service boundary, not in the UI.
func (s *KrsService) RemoveDetail(detailID, studentID uint) error {
	var detail models.KrsDetail
	if err := s.db.First(&detail, detailID).Error; err != nil {
		return utils.NotFound("KRS detail not found")
	}

	var header models.KrsHeader
	if err := s.db.First(&header, detail.KrsHeaderID).Error; err != nil {
		return utils.NotFound("KRS header not found")
	}
	if header.StudentID != studentID {
		return utils.Unauthorized("KRS belongs to another student")
	}
	if header.Status != models.KrsStatusDraft {
		return utils.Conflict("KRS is no longer editable")
	}

	return s.db.Delete(&detail).Error
}

// SetStatus applies an admin decision. APPROVED syncs the class rosters in
// the same transaction. REJECTED -> APPROVED stays permitted; DRAFT is never
// a valid target.
func (s *KrsService) SetStatus(headerID uint, status string, adminUserID uint, note string) (*models.KrsHeader, error) {
	if !IsDecision(status) {
		return nil, utils.Validation("Status must be APPROVED or REJECTED")
	}

	var header models.KrsHeader
	if err := s.db.Preload("Details").First(&header, headerID).Error; err != nil {
		return nil, utils.NotFound("KRS header not found")
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		header.Status = status
		header.DecidedBy = &adminUserID
		header.DecidedAt = &now
		header.Note = note
		if err := tx.Save(&header).Error; err != nil {
			return err
		}

		if status == models.KrsStatusApproved {
			for _, d := range header.Details {
				roster := models.ClassStudent{
					ClassID:   d.ClassID,
					StudentID: header.StudentID,
				}
				if err := tx.Where("class_id = ? AND student_id = ?", d.ClassID, header.StudentID).
					FirstOrCreate(&roster).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Details").Preload("Details.Class").Preload("Details.Class.Course").
		Preload("Student").First(&header, header.ID)

	// The notifier gets its own copy; header stays with the caller
	decided := header
	go NotifyKrsDecision(&decided)

	return &header, nil
}

// SetGrade records a final grade on a detail; only the lecturer teaching
// the class may grade it
func (s *KrsService) SetGrade(detailID uint, grade string, lecturerID uint) (*models.KrsDetail, error) {
	if grade == "" {
		return nil, utils.Validation("Grade is required")
	}

	var detail models.KrsDetail
	if err := s.db.Preload("Class").First(&detail, detailID).Error; err != nil {
		return nil, utils.NotFound("KRS detail not found")
	}
	if detail.Class.LecturerID != lecturerID {
		return nil, utils.Unauthorized("You do not teach this class")
	}

	detail.Grade = &grade
	if err := s.db.Save(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// HeadersForStudent returns the student's headers with details, newest first
func (s *KrsService) HeadersForStudent(studentID uint) ([]models.KrsHeader, error) {
	var headers []models.KrsHeader
	err := s.db.Where("student_id = ?", studentID).
		Preload("AcademicYear").
		Preload("Details").
		Preload("Details.Class").
		Preload("Details.Class.Course").
		Order("created_at DESC").
		Find(&headers).Error
	if err != nil {
		return nil, err
	}
	for i := range headers {
		if headers[i].Details == nil {
			headers[i].Details = []models.KrsDetail{}
		}
	}
	return headers, nil
}

// PendingHeaders lists DRAFT headers awaiting an admin decision
func (s *KrsService) PendingHeaders() ([]models.KrsHeader, error) {
	var headers []models.KrsHeader
	err := s.db.Where("status = ?", models.KrsStatusDraft).
		Preload("Student").
		Preload("AcademicYear").
		Preload("Details").
		Preload("Details.Class").
		Preload("Details.Class.Course").
		Order("created_at ASC").
		Find(&headers).Error
	return headers, err
}

// GetHeader loads one header with its details
func (s *KrsService) GetHeader(headerID uint) (*models.KrsHeader, error) {
	var header models.KrsHeader
	err := s.db.Preload("AcademicYear").
		Preload("Student").
		Preload("Details").
		Preload("Details.Class").
		Preload("Details.Class.Course").
		First(&header, headerID).Error
	if err != nil {
		return nil, utils.NotFound("KRS header not found")
	}
	if header.Details == nil {
		header.Details = []models.KrsDetail{}
	}
	return &header, nil
}
