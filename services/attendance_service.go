package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"siakad_go/config"
	"siakad_go/database"
	"siakad_go/models"
	"siakad_go/utils"
)

// AttendanceService implements the roll-call lifecycle: the teaching
// lecturer opens a session on one of the class's schedules, enrolled
// students upsert their status while it stays OPEN, and the session closes
// manually or when its window expires. Expiry is enforced both reactively
// (on read/write) and by the cron sweeper.
type AttendanceService struct {
	db     *gorm.DB
	window time.Duration
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{
		db:     database.DB,
		window: config.AppConfig.AttendanceWindow,
	}
}

// IsValidAttendanceStatus checks a record status value
func IsValidAttendanceStatus(status string) bool {
	switch status {
	case models.AttendanceHadir, models.AttendanceIzin, models.AttendanceSakit, models.AttendanceAlpa:
		return true
	}
	return false
}

// SessionExpired reports whether an OPEN session has outlived its window
func SessionExpired(session *models.AttendanceSession, now time.Time) bool {
	return session.Status == models.SessionStatusOpen && now.After(session.ExpiresAt)
}

// reapExpired flips expired OPEN sessions under the given schedules to
// CLOSED, stamping the window end as the close time
func (s *AttendanceService) reapExpired(scheduleIDs []uint, now time.Time) {
	if len(scheduleIDs) == 0 {
		return
	}
	s.db.Model(&models.AttendanceSession{}).
		Where("class_schedule_id IN ? AND status = ? AND expires_at < ?",
			scheduleIDs, models.SessionStatusOpen, now).
		Updates(map[string]interface{}{
			"status":    models.SessionStatusClosed,
			"closed_at": gorm.Expr("expires_at"),
		})
}

// SweepExpired closes every expired OPEN session; called by the cron
// scheduler. Returns the number of sessions closed.
func (s *AttendanceService) SweepExpired() (int64, error) {
	result := s.db.Model(&models.AttendanceSession{}).
		Where("status = ? AND expires_at < ?", models.SessionStatusOpen, time.Now()).
		Updates(map[string]interface{}{
			"status":    models.SessionStatusClosed,
			"closed_at": gorm.Expr("expires_at"),
		})
	return result.RowsAffected, result.Error
}

// OpenSession opens a roll-call window on a schedule of a class the
// lecturer teaches. At most one OPEN session per schedule.
func (s *AttendanceService) OpenSession(scheduleID, lecturerID uint, topic string) (*models.AttendanceSession, error) {
	var schedule models.ClassSchedule
	if err := s.db.Preload("Class").First(&schedule, scheduleID).Error; err != nil {
		return nil, utils.NotFound("Class schedule not found")
	}
	if schedule.Class.LecturerID != lecturerID {
		return nil, utils.Unauthorized("You do not teach this class")
	}

	now := time.Now()
	s.reapExpired([]uint{scheduleID}, now)

	var existing models.AttendanceSession
	if err := s.db.Where("class_schedule_id = ? AND status = ?", scheduleID, models.SessionStatusOpen).
		First(&existing).Error; err == nil {
		return nil, utils.Conflict("An open session already exists for this schedule")
	}

	session := models.AttendanceSession{
		ClassScheduleID: scheduleID,
		LecturerID:      lecturerID,
		Status:          models.SessionStatusOpen,
		OpenedAt:        now,
		ExpiresAt:       now.Add(s.window),
		Topic:           topic,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseSession closes a session; only the lecturer teaching the class may
// close it
func (s *AttendanceService) CloseSession(sessionID, lecturerID uint) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	if err := s.db.Preload("ClassSchedule").Preload("ClassSchedule.Class").
		First(&session, sessionID).Error; err != nil {
		return nil, utils.NotFound("Attendance session not found")
	}
	if session.ClassSchedule.Class.LecturerID != lecturerID {
		return nil, utils.Unauthorized("You do not teach this class")
	}
	if session.Status == models.SessionStatusClosed {
		return nil, utils.Conflict("Session is already closed")
	}

	now := time.Now()
	session.Status = models.SessionStatusClosed
	session.ClosedAt = &now
	if err := s.db.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Record upserts the student's attendance for an OPEN session. A second
// submission while the session is open overwrites the first.
func (s *AttendanceService) Record(sessionID, studentID uint, status string) (*models.AttendanceRecord, error) {
	if !IsValidAttendanceStatus(status) {
		return nil, utils.Validation("Attendance status must be HADIR, IZIN, SAKIT or ALPA")
	}

	var session models.AttendanceSession
	if err := s.db.Preload("ClassSchedule").First(&session, sessionID).Error; err != nil {
		return nil, utils.NotFound("Attendance session not found")
	}

	now := time.Now()
	if SessionExpired(&session, now) {
		session.Status = models.SessionStatusClosed
		closedAt := session.ExpiresAt
		session.ClosedAt = &closedAt
		s.db.Save(&session)
	}
	if session.Status != models.SessionStatusOpen {
		return nil, utils.Conflict("Session is not open")
	}

	// Enrollment check against the class roster
	var roster models.ClassStudent
	if err := s.db.Where("class_id = ? AND student_id = ? AND status = ?",
		session.ClassSchedule.ClassID, studentID, "active").
		First(&roster).Error; err != nil {
		return nil, utils.Unauthorized("You are not enrolled in this class")
	}

	var record models.AttendanceRecord
	err := s.db.Where("attendance_session_id = ? AND student_id = ?", sessionID, studentID).
		First(&record).Error
	if err == nil {
		record.Status = status
		if err := s.db.Save(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}

	record = models.AttendanceRecord{
		AttendanceSessionID: sessionID,
		StudentID:           studentID,
		Status:              status,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	if status == models.AttendanceAlpa {
		go NotifyGuardiansOfAbsence(studentID, &session)
	}
	return &record, nil
}

// ActiveSession returns the single OPEN session across the class's
// schedules, or nil when there is none. Polled by clients.
func (s *AttendanceService) ActiveSession(classID uint) (*models.AttendanceSession, error) {
	var scheduleIDs []uint
	if err := s.db.Model(&models.ClassSchedule{}).Where("class_id = ?", classID).
		Pluck("id", &scheduleIDs).Error; err != nil {
		return nil, err
	}
	if len(scheduleIDs) == 0 {
		return nil, nil
	}

	s.reapExpired(scheduleIDs, time.Now())

	var session models.AttendanceSession
	err := s.db.Where("class_schedule_id IN ? AND status = ?", scheduleIDs, models.SessionStatusOpen).
		Preload("ClassSchedule").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// SessionRecords lists a session's records for the teaching lecturer
func (s *AttendanceService) SessionRecords(sessionID, lecturerID uint) ([]models.AttendanceRecord, error) {
	var session models.AttendanceSession
	if err := s.db.Preload("ClassSchedule").Preload("ClassSchedule.Class").
		First(&session, sessionID).Error; err != nil {
		return nil, utils.NotFound("Attendance session not found")
	}
	if session.ClassSchedule.Class.LecturerID != lecturerID {
		return nil, utils.Unauthorized("You do not teach this class")
	}

	var records []models.AttendanceRecord
	err := s.db.Where("attendance_session_id = ?", sessionID).
		Preload("Student").
		Find(&records).Error
	return records, err
}

// StudentHistory lists the student's own records for a class
func (s *AttendanceService) StudentHistory(studentID, classID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.db.
		Joins("JOIN attendance_sessions ON attendance_sessions.id = attendance_records.attendance_session_id").
		Joins("JOIN class_schedules ON class_schedules.id = attendance_sessions.class_schedule_id").
		Where("attendance_records.student_id = ? AND class_schedules.class_id = ?", studentID, classID).
		Preload("AttendanceSession").
		Order("attendance_records.created_at DESC").
		Find(&records).Error
	return records, err
}
