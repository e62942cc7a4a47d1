package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// KRS header status values
const (
	KrsStatusDraft    = "DRAFT"
	KrsStatusApproved = "APPROVED"
	KrsStatusRejected = "REJECTED"
)

// Attendance session status values
const (
	SessionStatusOpen   = "OPEN"
	SessionStatusClosed = "CLOSED"
)

// Attendance record status values
const (
	AttendanceHadir = "HADIR"
	AttendanceIzin  = "IZIN"
	AttendanceSakit = "SAKIT"
	AttendanceAlpa  = "ALPA"
)

// User model. Each user has exactly one role and at most one of
// Student / Lecturer / Guardian profile.
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	LineID   string `json:"line_id" gorm:"size:100"`
	Role     string `json:"role" gorm:"size:50;not null;default:'student'"` // admin, lecturer, student, guardian
	Status   string `json:"status" gorm:"size:50;not null;default:'active'"` // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	// Relationships
	Student  *Student  `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Lecturer *Lecturer `json:"lecturer,omitempty" gorm:"foreignKey:UserID"`
	Guardian *Guardian `json:"guardian,omitempty" gorm:"foreignKey:UserID"`
}

// Student profile
type Student struct {
	BaseModel
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	NIM            string     `json:"nim" gorm:"size:20;not null;uniqueIndex"` // student number
	FirstName      string     `json:"first_name" gorm:"size:100"`
	LastName       string     `json:"last_name" gorm:"size:100"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         string     `json:"gender" gorm:"size:20"`
	Address        string     `json:"address" gorm:"size:500"`
	EntryYear      int        `json:"entry_year"`
	StudyProgramID uint       `json:"study_program_id"`
	Status         string     `json:"status" gorm:"size:50;default:'active'"` // active, on_leave, graduated, dropped_out

	// Relationships
	User         User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StudyProgram StudyProgram `json:"study_program,omitempty" gorm:"foreignKey:StudyProgramID"`
}

// Lecturer profile
type Lecturer struct {
	BaseModel
	UserID         uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	NIDN           string `json:"nidn" gorm:"size:20;not null;uniqueIndex"` // lecturer number
	FirstName      string `json:"first_name" gorm:"size:100"`
	LastName       string `json:"last_name" gorm:"size:100"`
	Degree         string `json:"degree" gorm:"size:100"`
	StudyProgramID uint   `json:"study_program_id"`
	Active         bool   `json:"active" gorm:"default:true"`

	// Relationships
	User         User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StudyProgram StudyProgram `json:"study_program,omitempty" gorm:"foreignKey:StudyProgramID"`
}

// Guardian profile (read-only stakeholder linked to students)
type Guardian struct {
	BaseModel
	UserID       uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName    string `json:"first_name" gorm:"size:100"`
	LastName     string `json:"last_name" gorm:"size:100"`
	Phone        string `json:"phone" gorm:"size:20"`
	Relationship string `json:"relationship" gorm:"size:50"` // father, mother, other

	// Relationships
	User     User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Students []GuardianStudent `json:"students,omitempty" gorm:"foreignKey:GuardianID"`
}

// GuardianStudent links a guardian to a student for academic visibility
type GuardianStudent struct {
	BaseModel
	GuardianID uint `json:"guardian_id" gorm:"not null;uniqueIndex:idx_guardian_student"`
	StudentID  uint `json:"student_id" gorm:"not null;uniqueIndex:idx_guardian_student"`

	// Relationships
	Guardian Guardian `json:"guardian,omitempty" gorm:"foreignKey:GuardianID"`
	Student  Student  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Major model
type Major struct {
	BaseModel
	Name   string `json:"name" gorm:"size:255;not null"`
	Code   string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Active bool   `json:"active" gorm:"default:true"`

	// Relationships
	StudyPrograms []StudyProgram `json:"study_programs,omitempty" gorm:"foreignKey:MajorID"`
}

// StudyProgram model
type StudyProgram struct {
	BaseModel
	MajorID uint   `json:"major_id" gorm:"not null"`
	Name    string `json:"name" gorm:"size:255;not null"`
	Code    string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Degree  string `json:"degree" gorm:"size:50"` // D3, D4, S1, S2, S3
	Active  bool   `json:"active" gorm:"default:true"`

	// Relationships
	Major Major `json:"major,omitempty" gorm:"foreignKey:MajorID"`
}

// Curriculum model: a versioned course plan for a study program
type Curriculum struct {
	BaseModel
	StudyProgramID uint   `json:"study_program_id" gorm:"not null"`
	Name           string `json:"name" gorm:"size:255;not null"`
	Year           int    `json:"year" gorm:"not null"`
	Active         bool   `json:"active" gorm:"default:true"`

	// Relationships
	StudyProgram StudyProgram `json:"study_program,omitempty" gorm:"foreignKey:StudyProgramID"`
	Courses      []Course     `json:"courses,omitempty" gorm:"foreignKey:CurriculumID"`
}

// Course model
type Course struct {
	BaseModel
	CurriculumID uint   `json:"curriculum_id" gorm:"not null"`
	Code         string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Credits      int    `json:"credits" gorm:"not null"` // SKS
	Semester     int    `json:"semester"`                // recommended semester, 1..8
	Description  string `json:"description" gorm:"type:text"`
	Status       string `json:"status" gorm:"size:50;default:'active'"` // active, inactive

	// Relationships
	Curriculum    Curriculum     `json:"curriculum,omitempty" gorm:"foreignKey:CurriculumID"`
	Prerequisites []Prerequisite `json:"prerequisites,omitempty" gorm:"foreignKey:CourseID"`
}

// Prerequisite edge: CourseID requires PrerequisiteID
type Prerequisite struct {
	BaseModel
	CourseID       uint `json:"course_id" gorm:"not null;uniqueIndex:idx_course_prereq"`
	PrerequisiteID uint `json:"prerequisite_id" gorm:"not null;uniqueIndex:idx_course_prereq"`

	// Relationships
	Course       Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Prerequisite Course `json:"prerequisite,omitempty" gorm:"foreignKey:PrerequisiteID"`
}

// AcademicYear scopes classes and enrollments to a school year + semester
type AcademicYear struct {
	BaseModel
	Name     string `json:"name" gorm:"size:50;not null"` // e.g. "2025/2026"
	Semester string `json:"semester" gorm:"size:20;not null"` // odd, even
	Active   bool   `json:"active" gorm:"default:false"` // at most one active at a time
}

// Class: an offering of a course in an academic year, taught by a lecturer
type Class struct {
	BaseModel
	CourseID       uint   `json:"course_id" gorm:"not null"`
	LecturerID     uint   `json:"lecturer_id" gorm:"not null"`
	AcademicYearID uint   `json:"academic_year_id" gorm:"not null"`
	Name           string `json:"name" gorm:"size:50;not null"` // e.g. "A", "B"
	Capacity       int    `json:"capacity" gorm:"default:40"`

	// Relationships
	Course       Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Lecturer     Lecturer        `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`
	AcademicYear AcademicYear    `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Schedules    []ClassSchedule `json:"schedules,omitempty" gorm:"foreignKey:ClassID"`
}

// ClassSchedule: a weekly meeting slot of a class
type ClassSchedule struct {
	BaseModel
	ClassID   uint   `json:"class_id" gorm:"not null"`
	DayOfWeek int    `json:"day_of_week" gorm:"not null"` // 1=Monday .. 7=Sunday
	StartTime string `json:"start_time" gorm:"size:5;not null"` // "07:30"
	EndTime   string `json:"end_time" gorm:"size:5;not null"`
	Room      string `json:"room" gorm:"size:100"`

	// Relationships
	Class Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// ClassStudent: roster row, created when a KRS containing the class is approved
type ClassStudent struct {
	BaseModel
	ClassID   uint   `json:"class_id" gorm:"not null;uniqueIndex:idx_class_student"`
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_class_student"`
	Status    string `json:"status" gorm:"size:50;default:'active'"` // active, dropped

	// Relationships
	Class   Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// KrsHeader: one enrollment plan per (student, academic year).
// Status only moves away from DRAFT via an admin decision.
type KrsHeader struct {
	BaseModel
	StudentID      uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_student_year"`
	AcademicYearID uint       `json:"academic_year_id" gorm:"not null;uniqueIndex:idx_student_year"`
	Status         string     `json:"status" gorm:"size:20;not null;default:'DRAFT'"`
	DecidedBy      *uint      `json:"decided_by"`
	DecidedAt      *time.Time `json:"decided_at"`
	Note           string     `json:"note" gorm:"size:500"`

	// Relationships
	Student      Student      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	AcademicYear AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Details      []KrsDetail  `json:"details" gorm:"foreignKey:KrsHeaderID"`
}

// KrsDetail: one selected class per header, optionally carrying a final grade
type KrsDetail struct {
	BaseModel
	KrsHeaderID uint    `json:"krs_header_id" gorm:"not null;uniqueIndex:idx_header_class"`
	ClassID     uint    `json:"class_id" gorm:"not null;uniqueIndex:idx_header_class"`
	Grade       *string `json:"grade" gorm:"size:5"` // A, B+, ... set after the semester

	// Relationships
	KrsHeader KrsHeader `json:"krs_header,omitempty" gorm:"foreignKey:KrsHeaderID"`
	Class     Class     `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// AttendanceSession: one roll-call window per class schedule opening.
// At most one OPEN session per schedule at a time.
type AttendanceSession struct {
	BaseModel
	ClassScheduleID uint       `json:"class_schedule_id" gorm:"not null"`
	LecturerID      uint       `json:"lecturer_id" gorm:"not null"`
	Status          string     `json:"status" gorm:"size:20;not null;default:'OPEN'"`
	OpenedAt        time.Time  `json:"opened_at" gorm:"not null"`
	ExpiresAt       time.Time  `json:"expires_at" gorm:"not null"`
	ClosedAt        *time.Time `json:"closed_at"`
	Topic           string     `json:"topic" gorm:"size:255"`

	// Relationships
	ClassSchedule ClassSchedule      `json:"class_schedule,omitempty" gorm:"foreignKey:ClassScheduleID"`
	Lecturer      Lecturer           `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`
	Records       []AttendanceRecord `json:"records,omitempty" gorm:"foreignKey:AttendanceSessionID"`
}

// AttendanceRecord: upserted, one per (session, student)
type AttendanceRecord struct {
	BaseModel
	AttendanceSessionID uint   `json:"attendance_session_id" gorm:"not null;uniqueIndex:idx_session_student"`
	StudentID           uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_session_student"`
	Status              string `json:"status" gorm:"size:20;not null"`

	// Relationships
	AttendanceSession AttendanceSession `json:"attendance_session,omitempty" gorm:"foreignKey:AttendanceSessionID"`
	Student           Student           `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Material: course material published by the teaching lecturer
type Material struct {
	BaseModel
	ClassID     uint   `json:"class_id" gorm:"not null"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	FileURL     string `json:"file_url" gorm:"size:500"`

	// Relationships
	Class Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Assignment model
type Assignment struct {
	BaseModel
	ClassID     uint       `json:"class_id" gorm:"not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	FileURL     string     `json:"file_url" gorm:"size:500"`
	Deadline    *time.Time `json:"deadline"`

	// Relationships
	Class       Class                  `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Submissions []AssignmentSubmission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`
}

// AssignmentSubmission: one per (assignment, student); grade set by the lecturer
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint       `json:"assignment_id" gorm:"not null;uniqueIndex:idx_assignment_student"`
	StudentID    uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_assignment_student"`
	FileURL      string     `json:"file_url" gorm:"size:500;not null"`
	Note         string     `json:"note" gorm:"size:500"`
	Grade        *float64   `json:"grade"`
	GradedBy     *uint      `json:"graded_by"`
	GradedAt     *time.Time `json:"graded_at"`

	// Relationships
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Student    Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
