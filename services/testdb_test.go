package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"siakad_go/database"
	"siakad_go/models"
	"siakad_go/utils"
)

var (
	testDBOnce sync.Once
	fixtureSeq uint64
)

// openTestDB opens one shared in-memory database for the package and
// migrates the full schema into it. database.DB is pointed at the same
// store so the notifier paths write to it too.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			t.Fatalf("failed to open test database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("failed to get sql.DB: %v", err)
		}
		// One connection keeps the shared-cache database race free
		sqlDB.SetMaxOpenConns(1)

		database.DB = db
		database.AutoMigrate()
	})
	if database.DB == nil {
		t.Fatal("test database was not initialized")
	}
	return database.DB
}

func nextSeq() uint64 {
	return atomic.AddUint64(&fixtureSeq, 1)
}

func newTestStudent(t *testing.T, db *gorm.DB) models.Student {
	t.Helper()
	n := nextSeq()
	user := models.User{
		Username: fmt.Sprintf("student%d", n),
		Password: "hashed",
		Email:    fmt.Sprintf("student%d@test.local", n),
		Role:     "student",
		Status:   "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create student user: %v", err)
	}
	student := models.Student{
		UserID:    user.ID,
		NIM:       fmt.Sprintf("24%06d", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("Student%d", n),
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student profile: %v", err)
	}
	return student
}

func newTestLecturer(t *testing.T, db *gorm.DB) models.Lecturer {
	t.Helper()
	n := nextSeq()
	user := models.User{
		Username: fmt.Sprintf("lecturer%d", n),
		Password: "hashed",
		Email:    fmt.Sprintf("lecturer%d@test.local", n),
		Role:     "lecturer",
		Status:   "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create lecturer user: %v", err)
	}
	lecturer := models.Lecturer{
		UserID:    user.ID,
		NIDN:      fmt.Sprintf("99%06d", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("Lecturer%d", n),
		Active:    true,
	}
	if err := db.Create(&lecturer).Error; err != nil {
		t.Fatalf("failed to create lecturer profile: %v", err)
	}
	return lecturer
}

func newTestGuardian(t *testing.T, db *gorm.DB, student models.Student) models.Guardian {
	t.Helper()
	n := nextSeq()
	user := models.User{
		Username: fmt.Sprintf("guardian%d", n),
		Password: "hashed",
		Email:    fmt.Sprintf("guardian%d@test.local", n),
		Role:     "guardian",
		Status:   "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create guardian user: %v", err)
	}
	guardian := models.Guardian{
		UserID:       user.ID,
		FirstName:    "Test",
		LastName:     fmt.Sprintf("Guardian%d", n),
		Relationship: "father",
	}
	if err := db.Create(&guardian).Error; err != nil {
		t.Fatalf("failed to create guardian profile: %v", err)
	}
	link := models.GuardianStudent{GuardianID: guardian.ID, StudentID: student.ID}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("failed to link guardian to student: %v", err)
	}
	return guardian
}

func newTestAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	n := nextSeq()
	user := models.User{
		Username: fmt.Sprintf("admin%d", n),
		Password: "hashed",
		Email:    fmt.Sprintf("admin%d@test.local", n),
		Role:     "admin",
		Status:   "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create admin user: %v", err)
	}
	return user
}

// activeTestYear returns the single active academic year shared by the
// package's tests; the KRS service resolves the active year globally.
func activeTestYear(t *testing.T, db *gorm.DB) models.AcademicYear {
	t.Helper()
	year := models.AcademicYear{Name: "2099/2100", Semester: "odd", Active: true}
	if err := db.Where("name = ?", year.Name).FirstOrCreate(&year).Error; err != nil {
		t.Fatalf("failed to create active academic year: %v", err)
	}
	return year
}

func pastTestYear(t *testing.T, db *gorm.DB) models.AcademicYear {
	t.Helper()
	year := models.AcademicYear{Name: "2098/2099", Semester: "odd"}
	if err := db.Where("name = ?", year.Name).FirstOrCreate(&year).Error; err != nil {
		t.Fatalf("failed to create past academic year: %v", err)
	}
	return year
}

func newTestCourse(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()
	n := nextSeq()
	course := models.Course{
		Code:    fmt.Sprintf("TST%04d", n),
		Name:    fmt.Sprintf("Test Course %d", n),
		Credits: 3,
		Status:  "active",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	return course
}

func newTestClass(t *testing.T, db *gorm.DB, course models.Course, lecturer models.Lecturer, year models.AcademicYear) models.Class {
	t.Helper()
	class := models.Class{
		CourseID:       course.ID,
		LecturerID:     lecturer.ID,
		AcademicYearID: year.ID,
		Name:           fmt.Sprintf("K%d", nextSeq()),
		Capacity:       40,
	}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	return class
}

func newTestSchedule(t *testing.T, db *gorm.DB, class models.Class) models.ClassSchedule {
	t.Helper()
	schedule := models.ClassSchedule{
		ClassID:   class.ID,
		DayOfWeek: 1,
		StartTime: "07:30",
		EndTime:   "09:10",
		Room:      "R101",
	}
	if err := db.Create(&schedule).Error; err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	return schedule
}

func enrollStudent(t *testing.T, db *gorm.DB, class models.Class, student models.Student) {
	t.Helper()
	roster := models.ClassStudent{
		ClassID:   class.ID,
		StudentID: student.ID,
		Status:    "active",
	}
	if err := db.Create(&roster).Error; err != nil {
		t.Fatalf("failed to enroll student: %v", err)
	}
}

// expectStatus fails unless err is an AppError carrying the given HTTP status
func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with status %d, got nil", status)
	}
	appErr, ok := utils.AsAppError(err)
	if !ok {
		t.Fatalf("expected an AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus() != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.HTTPStatus(), appErr.Message)
	}
}
