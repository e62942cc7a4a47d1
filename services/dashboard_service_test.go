package services

import (
	"testing"

	"siakad_go/models"
	"siakad_go/utils"
)

// Compile-time check that every variant satisfies the closed interface
var (
	_ Dashboard = AdminDashboard{}
	_ Dashboard = LecturerDashboard{}
	_ Dashboard = StudentDashboard{}
	_ Dashboard = GuardianDashboard{}
)

func TestBuildDashboardRejectsMissingProfiles(t *testing.T) {
	s := &DashboardService{}

	tests := []struct {
		name string
		user models.User
	}{
		{"lecturer without profile", models.User{Role: "lecturer"}},
		{"student without profile", models.User{Role: "student"}},
		{"guardian without profile", models.User{Role: "guardian"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.BuildDashboard(&tc.user)
			if err == nil {
				t.Fatalf("expected error for missing profile")
			}
			appErr, ok := utils.AsAppError(err)
			if !ok || appErr.Kind != utils.KindUnauthorized {
				t.Fatalf("expected unauthorized error, got %v", err)
			}
		})
	}
}

func TestGuardianDashboardListsEnrolledClasses(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	s := &DashboardService{db: db}

	student := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	course := newTestCourse(t, db)
	class := newTestClass(t, db, course, lecturer, year)
	enrollStudent(t, db, class, student)
	guardian := newTestGuardian(t, db, student)

	dashboard, err := s.buildGuardian(guardian.ID)
	if err != nil {
		t.Fatalf("buildGuardian failed: %v", err)
	}

	gd, ok := dashboard.(GuardianDashboard)
	if !ok {
		t.Fatalf("buildGuardian returned %T, expected GuardianDashboard", dashboard)
	}
	if len(gd.Students) != 1 {
		t.Fatalf("guardian sees %d students, expected 1", len(gd.Students))
	}
	view := gd.Students[0]
	if len(view.Classes) != 1 {
		t.Fatalf("guardian sees %d classes, expected 1", len(view.Classes))
	}
	if view.Classes[0].CourseCode != course.Code {
		t.Fatalf("class course code = %q, expected %q", view.Classes[0].CourseCode, course.Code)
	}
}

func TestBuildDashboardRejectsUnknownRole(t *testing.T) {
	s := &DashboardService{}

	_, err := s.BuildDashboard(&models.User{Role: "owner"})
	if err == nil {
		t.Fatalf("expected error for unknown role")
	}
	appErr, ok := utils.AsAppError(err)
	if !ok || appErr.Kind != utils.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
