package services

import (
	"testing"

	"siakad_go/models"
)

func TestCreateHeaderOnePerYear(t *testing.T) {
	db := openTestDB(t)
	activeTestYear(t, db)
	svc := &KrsService{db: db}
	student := newTestStudent(t, db)

	header, err := svc.CreateHeader(student.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}
	if header.Status != models.KrsStatusDraft {
		t.Fatalf("new header status = %q, expected DRAFT", header.Status)
	}

	_, err = svc.CreateHeader(student.ID)
	expectStatus(t, err, 409)
}

func TestAddDetailRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := &KrsService{db: db}

	student := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	course := newTestCourse(t, db)
	classA := newTestClass(t, db, course, lecturer, year)
	classB := newTestClass(t, db, course, lecturer, year)

	header, err := svc.CreateHeader(student.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}

	if _, err := svc.AddDetail(header.ID, classA.ID, student.ID); err != nil {
		t.Fatalf("first AddDetail failed: %v", err)
	}

	// Same class a second time
	_, err = svc.AddDetail(header.ID, classA.ID, student.ID)
	expectStatus(t, err, 409)

	// Same course through a different class
	_, err = svc.AddDetail(header.ID, classB.ID, student.ID)
	expectStatus(t, err, 409)
}

func TestAddDetailOwnership(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := &KrsService{db: db}

	owner := newTestStudent(t, db)
	intruder := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)

	header, err := svc.CreateHeader(owner.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}

	_, err = svc.AddDetail(header.ID, class.ID, intruder.ID)
	expectStatus(t, err, 403)
}

func TestDetailEditsLockedAfterDecision(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := &KrsService{db: db}

	student := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	admin := newTestAdmin(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	otherClass := newTestClass(t, db, newTestCourse(t, db), lecturer, year)

	header, err := svc.CreateHeader(student.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}
	detail, err := svc.AddDetail(header.ID, class.ID, student.ID)
	if err != nil {
		t.Fatalf("AddDetail failed: %v", err)
	}

	if _, err := svc.SetStatus(header.ID, models.KrsStatusApproved, admin.ID, ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	_, err = svc.AddDetail(header.ID, otherClass.ID, student.ID)
	expectStatus(t, err, 409)

	err = svc.RemoveDetail(detail.ID, student.ID)
	expectStatus(t, err, 409)
}

func TestSetStatusApprovedSyncsRoster(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := &KrsService{db: db}

	student := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	admin := newTestAdmin(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)

	header, err := svc.CreateHeader(student.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}
	if _, err := svc.AddDetail(header.ID, class.ID, student.ID); err != nil {
		t.Fatalf("AddDetail failed: %v", err)
	}

	_, err = svc.SetStatus(header.ID, models.KrsStatusDraft, admin.ID, "")
	expectStatus(t, err, 400)

	updated, err := svc.SetStatus(header.ID, models.KrsStatusApproved, admin.ID, "")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != models.KrsStatusApproved {
		t.Fatalf("header status = %q, expected APPROVED", updated.Status)
	}

	var rosterCount int64
	db.Model(&models.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", class.ID, student.ID).
		Count(&rosterCount)
	if rosterCount != 1 {
		t.Fatalf("roster rows = %d, expected 1", rosterCount)
	}

	// Re-deciding repeatedly keeps the roster row unique and leaves the
	// returned header untouched by the notifier goroutine
	for i := 0; i < 6; i++ {
		status := models.KrsStatusApproved
		if i%2 == 0 {
			status = models.KrsStatusRejected
		}
		if _, err := svc.SetStatus(header.ID, status, admin.ID, "revisit"); err != nil {
			t.Fatalf("SetStatus iteration %d failed: %v", i, err)
		}
	}

	db.Model(&models.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", class.ID, student.ID).
		Count(&rosterCount)
	if rosterCount != 1 {
		t.Fatalf("roster rows after re-decisions = %d, expected 1", rosterCount)
	}
}

func TestAddDetailEnforcesPrerequisites(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	past := pastTestYear(t, db)
	svc := &KrsService{db: db}

	student := newTestStudent(t, db)
	lecturer := newTestLecturer(t, db)
	base := newTestCourse(t, db)
	advanced := newTestCourse(t, db)
	if err := db.Create(&models.Prerequisite{CourseID: advanced.ID, PrerequisiteID: base.ID}).Error; err != nil {
		t.Fatalf("failed to create prerequisite edge: %v", err)
	}
	advClass := newTestClass(t, db, advanced, lecturer, year)

	header, err := svc.CreateHeader(student.ID)
	if err != nil {
		t.Fatalf("CreateHeader failed: %v", err)
	}

	_, err = svc.AddDetail(header.ID, advClass.ID, student.ID)
	expectStatus(t, err, 409)

	// A passing grade in an approved prior KRS unlocks the course
	baseClass := newTestClass(t, db, base, lecturer, past)
	prior := models.KrsHeader{
		StudentID:      student.ID,
		AcademicYearID: past.ID,
		Status:         models.KrsStatusApproved,
	}
	if err := db.Create(&prior).Error; err != nil {
		t.Fatalf("failed to create prior header: %v", err)
	}
	grade := "B"
	priorDetail := models.KrsDetail{KrsHeaderID: prior.ID, ClassID: baseClass.ID, Grade: &grade}
	if err := db.Create(&priorDetail).Error; err != nil {
		t.Fatalf("failed to create prior detail: %v", err)
	}

	if _, err := svc.AddDetail(header.ID, advClass.ID, student.ID); err != nil {
		t.Fatalf("AddDetail with fulfilled prerequisite failed: %v", err)
	}
}

func TestIsDecision(t *testing.T) {
	tests := []struct {
		status   string
		decision bool
	}{
		{models.KrsStatusApproved, true},
		{models.KrsStatusRejected, true},
		{models.KrsStatusDraft, false},
		{"approved", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsDecision(tc.status); got != tc.decision {
			t.Errorf("IsDecision(%q) = %v, expected %v", tc.status, got, tc.decision)
		}
	}
}

func TestPassesPrerequisite(t *testing.T) {
	gradeA := "A"
	gradeE := "E"
	empty := ""

	tests := []struct {
		name   string
		grade  *string
		passes bool
	}{
		{"nil grade", nil, false},
		{"empty grade", &empty, false},
		{"failing grade", &gradeE, false},
		{"passing grade", &gradeA, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := PassesPrerequisite(tc.grade); got != tc.passes {
				t.Fatalf("PassesPrerequisite = %v, expected %v", got, tc.passes)
			}
		})
	}
}
