package services

import (
	"time"

	"gorm.io/gorm"

	"siakad_go/database"
	"siakad_go/models"
	"siakad_go/utils"
)

// Dashboard is a closed set of role-specific view models. Each role gets
// its own variant; BuildDashboard matches the role exhaustively instead of
// branching on strings at render time.
type Dashboard interface {
	dashboard()
}

type AdminDashboard struct {
	TotalStudents    int64                `json:"total_students"`
	TotalLecturers   int64                `json:"total_lecturers"`
	TotalClasses     int64                `json:"total_classes"`
	PendingKrs       int64                `json:"pending_krs"`
	ActiveYear       *models.AcademicYear `json:"active_year"`
	RecentActivities []models.ActivityLog `json:"recent_activities"`
}

type LecturerDashboard struct {
	Classes             []models.Class             `json:"classes"`
	OpenSessions        []models.AttendanceSession `json:"open_sessions"`
	UngradedSubmissions int64                      `json:"ungraded_submissions"`
}

type StudentDashboard struct {
	CurrentKrs        *models.KrsHeader      `json:"current_krs"`
	TodaySchedules    []models.ClassSchedule `json:"today_schedules"`
	AttendanceSummary map[string]int64       `json:"attendance_summary"`
	DueAssignments    []models.Assignment    `json:"due_assignments"`
}

type GuardianStudentView struct {
	Student           models.Student     `json:"student"`
	KrsStatus         string             `json:"krs_status"`
	Classes           []utils.ClassShort `json:"classes"`
	AttendanceSummary map[string]int64   `json:"attendance_summary"`
}

type GuardianDashboard struct {
	Students []GuardianStudentView `json:"students"`
}

func (AdminDashboard) dashboard()    {}
func (LecturerDashboard) dashboard() {}
func (StudentDashboard) dashboard()  {}
func (GuardianDashboard) dashboard() {}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService() *DashboardService {
	return &DashboardService{db: database.DB}
}

// BuildDashboard assembles the view model matching the user's role
func (s *DashboardService) BuildDashboard(user *models.User) (Dashboard, error) {
	switch user.Role {
	case "admin":
		return s.buildAdmin()
	case "lecturer":
		if user.Lecturer == nil {
			return nil, utils.Unauthorized("Caller has no lecturer profile")
		}
		return s.buildLecturer(user.Lecturer.ID)
	case "student":
		if user.Student == nil {
			return nil, utils.Unauthorized("Caller has no student profile")
		}
		return s.buildStudent(user.Student.ID)
	case "guardian":
		if user.Guardian == nil {
			return nil, utils.Unauthorized("Caller has no guardian profile")
		}
		return s.buildGuardian(user.Guardian.ID)
	default:
		return nil, utils.Validation("Unknown role: " + user.Role)
	}
}

func (s *DashboardService) buildAdmin() (Dashboard, error) {
	var d AdminDashboard

	s.db.Model(&models.Student{}).Count(&d.TotalStudents)
	s.db.Model(&models.Lecturer{}).Count(&d.TotalLecturers)
	s.db.Model(&models.Class{}).Count(&d.TotalClasses)
	s.db.Model(&models.KrsHeader{}).Where("status = ?", models.KrsStatusDraft).Count(&d.PendingKrs)

	var year models.AcademicYear
	if err := s.db.Where("active = ?", true).First(&year).Error; err == nil {
		d.ActiveYear = &year
	}

	s.db.Preload("User").Order("created_at DESC").Limit(10).Find(&d.RecentActivities)
	if d.RecentActivities == nil {
		d.RecentActivities = []models.ActivityLog{}
	}
	return d, nil
}

func (s *DashboardService) buildLecturer(lecturerID uint) (Dashboard, error) {
	var d LecturerDashboard

	err := s.db.Where("lecturer_id = ?", lecturerID).
		Preload("Course").Preload("AcademicYear").Preload("Schedules").
		Find(&d.Classes).Error
	if err != nil {
		return nil, err
	}
	if d.Classes == nil {
		d.Classes = []models.Class{}
	}

	s.db.Where("lecturer_id = ? AND status = ?", lecturerID, models.SessionStatusOpen).
		Preload("ClassSchedule").
		Find(&d.OpenSessions)
	if d.OpenSessions == nil {
		d.OpenSessions = []models.AttendanceSession{}
	}

	s.db.Model(&models.AssignmentSubmission{}).
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Joins("JOIN classes ON classes.id = assignments.class_id").
		Where("classes.lecturer_id = ? AND assignment_submissions.grade IS NULL", lecturerID).
		Count(&d.UngradedSubmissions)

	return d, nil
}

func (s *DashboardService) buildStudent(studentID uint) (Dashboard, error) {
	var d StudentDashboard

	var header models.KrsHeader
	err := s.db.
		Joins("JOIN academic_years ON academic_years.id = krs_headers.academic_year_id").
		Where("krs_headers.student_id = ? AND academic_years.active = ?", studentID, true).
		Preload("Details").Preload("Details.Class").Preload("Details.Class.Course").
		First(&header).Error
	if err == nil {
		d.CurrentKrs = &header
	}

	// Weekday of the server's local time; schedules use 1=Monday..7=Sunday
	weekday := int(time.Now().Weekday())
	if weekday == 0 {
		weekday = 7
	}
	s.db.
		Joins("JOIN class_students ON class_students.class_id = class_schedules.class_id").
		Where("class_students.student_id = ? AND class_students.status = ? AND class_schedules.day_of_week = ?",
			studentID, "active", weekday).
		Preload("Class").Preload("Class.Course").
		Find(&d.TodaySchedules)
	if d.TodaySchedules == nil {
		d.TodaySchedules = []models.ClassSchedule{}
	}

	d.AttendanceSummary = s.attendanceSummary(studentID)

	s.db.
		Joins("JOIN class_students ON class_students.class_id = assignments.class_id").
		Where("class_students.student_id = ? AND assignments.deadline > ?", studentID, time.Now()).
		Order("assignments.deadline ASC").Limit(5).
		Find(&d.DueAssignments)
	if d.DueAssignments == nil {
		d.DueAssignments = []models.Assignment{}
	}

	return d, nil
}

func (s *DashboardService) buildGuardian(guardianID uint) (Dashboard, error) {
	var links []models.GuardianStudent
	err := s.db.Where("guardian_id = ?", guardianID).
		Preload("Student").Preload("Student.StudyProgram").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	d := GuardianDashboard{Students: []GuardianStudentView{}}
	for _, link := range links {
		view := GuardianStudentView{
			Student:           link.Student,
			Classes:           s.enrolledClasses(link.StudentID),
			AttendanceSummary: s.attendanceSummary(link.StudentID),
		}

		var header models.KrsHeader
		err := s.db.
			Joins("JOIN academic_years ON academic_years.id = krs_headers.academic_year_id").
			Where("krs_headers.student_id = ? AND academic_years.active = ?", link.StudentID, true).
			First(&header).Error
		if err == nil {
			view.KrsStatus = header.Status
		}

		d.Students = append(d.Students, view)
	}
	return d, nil
}

// enrolledClasses lists a student's active roster rows as compact DTOs
func (s *DashboardService) enrolledClasses(studentID uint) []utils.ClassShort {
	var rosters []models.ClassStudent
	s.db.Where("student_id = ? AND status = ?", studentID, "active").
		Preload("Class").Preload("Class.Course").
		Find(&rosters)

	classes := make([]utils.ClassShort, 0, len(rosters))
	for _, r := range rosters {
		classes = append(classes, utils.ToClassShort(r.Class))
	}
	return classes
}

// attendanceSummary counts a student's records per status
func (s *DashboardService) attendanceSummary(studentID uint) map[string]int64 {
	summary := map[string]int64{
		models.AttendanceHadir: 0,
		models.AttendanceIzin:  0,
		models.AttendanceSakit: 0,
		models.AttendanceAlpa:  0,
	}

	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	s.db.Model(&models.AttendanceRecord{}).
		Select("status, COUNT(*) as total").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows)
	for _, r := range rows {
		summary[r.Status] = r.Total
	}
	return summary
}
