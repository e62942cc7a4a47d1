package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"siakad_go/models"
)

func newTestAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db, window: 15 * time.Minute}
}

func TestOpenSessionSinglePerSchedule(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	other := newTestLecturer(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	schedule := newTestSchedule(t, db, class)

	// Only the teaching lecturer may open
	_, err := svc.OpenSession(schedule.ID, other.ID, "Week 1")
	expectStatus(t, err, 403)

	session, err := svc.OpenSession(schedule.ID, lecturer.ID, "Week 1")
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	if session.Status != models.SessionStatusOpen {
		t.Fatalf("session status = %q, expected OPEN", session.Status)
	}

	_, err = svc.OpenSession(schedule.ID, lecturer.ID, "Week 1 again")
	expectStatus(t, err, 409)
}

func TestRecordUpsertsPerStudent(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	student := newTestStudent(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	schedule := newTestSchedule(t, db, class)
	enrollStudent(t, db, class, student)

	session, err := svc.OpenSession(schedule.ID, lecturer.ID, "Week 2")
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	if _, err := svc.Record(session.ID, student.ID, models.AttendanceHadir); err != nil {
		t.Fatalf("first Record failed: %v", err)
	}
	record, err := svc.Record(session.ID, student.ID, models.AttendanceIzin)
	if err != nil {
		t.Fatalf("second Record failed: %v", err)
	}
	if record.Status != models.AttendanceIzin {
		t.Fatalf("record status = %q, expected IZIN", record.Status)
	}

	var count int64
	db.Model(&models.AttendanceRecord{}).
		Where("attendance_session_id = ? AND student_id = ?", session.ID, student.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("records = %d, expected a single upserted row", count)
	}
}

func TestRecordRequiresEnrollment(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	outsider := newTestStudent(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	schedule := newTestSchedule(t, db, class)

	session, err := svc.OpenSession(schedule.ID, lecturer.ID, "Week 3")
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	_, err = svc.Record(session.ID, outsider.ID, models.AttendanceHadir)
	expectStatus(t, err, 403)
}

func TestRecordClosesExpiredSession(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	student := newTestStudent(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	schedule := newTestSchedule(t, db, class)
	enrollStudent(t, db, class, student)

	now := time.Now()
	session := models.AttendanceSession{
		ClassScheduleID: schedule.ID,
		LecturerID:      lecturer.ID,
		Status:          models.SessionStatusOpen,
		OpenedAt:        now.Add(-30 * time.Minute),
		ExpiresAt:       now.Add(-15 * time.Minute),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create expired session: %v", err)
	}

	_, err := svc.Record(session.ID, student.ID, models.AttendanceHadir)
	expectStatus(t, err, 409)

	var reloaded models.AttendanceSession
	if err := db.First(&reloaded, session.ID).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if reloaded.Status != models.SessionStatusClosed {
		t.Fatalf("expired session status = %q, expected CLOSED", reloaded.Status)
	}
	if reloaded.ClosedAt == nil {
		t.Fatal("expired session has no close time")
	}
}

func TestSweepExpiredClosesSessions(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)
	schedule := newTestSchedule(t, db, class)

	now := time.Now()
	session := models.AttendanceSession{
		ClassScheduleID: schedule.ID,
		LecturerID:      lecturer.ID,
		Status:          models.SessionStatusOpen,
		OpenedAt:        now.Add(-1 * time.Hour),
		ExpiresAt:       now.Add(-45 * time.Minute),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create expired session: %v", err)
	}

	closed, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if closed < 1 {
		t.Fatalf("SweepExpired closed %d sessions, expected at least 1", closed)
	}

	var reloaded models.AttendanceSession
	if err := db.First(&reloaded, session.ID).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if reloaded.Status != models.SessionStatusClosed {
		t.Fatalf("swept session status = %q, expected CLOSED", reloaded.Status)
	}
}

func TestActiveSession(t *testing.T) {
	db := openTestDB(t)
	year := activeTestYear(t, db)
	svc := newTestAttendanceService(db)

	lecturer := newTestLecturer(t, db)
	class := newTestClass(t, db, newTestCourse(t, db), lecturer, year)

	// No schedules at all
	session, err := svc.ActiveSession(class.ID)
	if err != nil || session != nil {
		t.Fatalf("ActiveSession on empty class = (%v, %v), expected (nil, nil)", session, err)
	}

	schedule := newTestSchedule(t, db, class)

	// Schedule without an open session
	session, err = svc.ActiveSession(class.ID)
	if err != nil || session != nil {
		t.Fatalf("ActiveSession without sessions = (%v, %v), expected (nil, nil)", session, err)
	}

	opened, err := svc.OpenSession(schedule.ID, lecturer.ID, "Week 4")
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	session, err = svc.ActiveSession(class.ID)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if session == nil || session.ID != opened.ID {
		t.Fatalf("ActiveSession returned %v, expected session %d", session, opened.ID)
	}
}

func TestIsValidAttendanceStatus(t *testing.T) {
	tests := []struct {
		status string
		valid  bool
	}{
		{models.AttendanceHadir, true},
		{models.AttendanceIzin, true},
		{models.AttendanceSakit, true},
		{models.AttendanceAlpa, true},
		{"hadir", false},
		{"PRESENT", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsValidAttendanceStatus(tc.status); got != tc.valid {
			t.Errorf("IsValidAttendanceStatus(%q) = %v, expected %v", tc.status, got, tc.valid)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		session models.AttendanceSession
		expired bool
	}{
		{
			name: "open within window",
			session: models.AttendanceSession{
				Status:    models.SessionStatusOpen,
				ExpiresAt: now.Add(5 * time.Minute),
			},
			expired: false,
		},
		{
			name: "open past window",
			session: models.AttendanceSession{
				Status:    models.SessionStatusOpen,
				ExpiresAt: now.Add(-1 * time.Minute),
			},
			expired: true,
		},
		{
			name: "closed past window",
			session: models.AttendanceSession{
				Status:    models.SessionStatusClosed,
				ExpiresAt: now.Add(-1 * time.Minute),
			},
			expired: false,
		},
		{
			name: "open exactly at boundary",
			session: models.AttendanceSession{
				Status:    models.SessionStatusOpen,
				ExpiresAt: now,
			},
			expired: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionExpired(&tc.session, now); got != tc.expired {
				t.Fatalf("SessionExpired = %v, expected %v", got, tc.expired)
			}
		})
	}
}
