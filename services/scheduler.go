package services

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the periodic maintenance jobs: closing expired attendance
// sessions and flushing Redis-cached activity logs to the database.
type Scheduler struct {
	cron       *cron.Cron
	attendance *AttendanceService
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		attendance: NewAttendanceService(),
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine
func (s *Scheduler) Start() {
	// Expired OPEN sessions are also reaped reactively on read/write; the
	// sweep keeps the table honest when nobody is polling.
	s.cron.AddFunc("@every 1m", func() {
		closed, err := s.attendance.SweepExpired()
		if err != nil {
			logrus.WithError(err).Error("Attendance sweep failed")
			return
		}
		if closed > 0 {
			logrus.WithField("closed", closed).Info("Closed expired attendance sessions")
		}
	})

	s.cron.AddFunc("@every 5m", func() {
		flushed, err := FlushCachedLogs()
		if err != nil {
			logrus.WithError(err).Debug("Log flush skipped")
			return
		}
		if flushed > 0 {
			logrus.WithField("flushed", flushed).Info("Flushed cached activity logs")
		}
	})

	s.cron.Start()
	logrus.Info("Maintenance scheduler started")
}

// Stop halts the cron loop
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
