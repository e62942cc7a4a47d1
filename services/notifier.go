package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"siakad_go/database"
	"siakad_go/models"
)

var lineService *LineMessagingService

// InitNotifier wires the LINE messaging client used for guardian pushes
func InitNotifier() {
	lineService = NewLineMessagingService()
}

// NotifyUser creates an in-app notification and pushes it over LINE when
// the user linked an account
func NotifyUser(userID uint, title, message, notifType string) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logrus.WithError(err).Error("Failed to create notification")
		return
	}

	if lineService == nil || lineService.Bot == nil {
		return
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return
	}
	if user.LineID != "" {
		if err := lineService.PushMessage(user.LineID, title+"\n"+message); err != nil {
			logrus.WithError(err).Warn("Failed to push LINE message")
		}
	}
}

// notifyGuardians fans a message out to every guardian linked to a student
func notifyGuardians(studentID uint, title, message, notifType string) {
	var links []models.GuardianStudent
	if err := database.DB.Preload("Guardian").Where("student_id = ?", studentID).
		Find(&links).Error; err != nil {
		logrus.WithError(err).Error("Failed to load guardian links")
		return
	}
	for _, link := range links {
		NotifyUser(link.Guardian.UserID, title, message, notifType)
	}
}

// NotifyKrsDecision notifies the student and linked guardians of an admin
// KRS decision
func NotifyKrsDecision(header *models.KrsHeader) {
	var student models.Student
	if err := database.DB.First(&student, header.StudentID).Error; err != nil {
		return
	}

	title := "KRS " + header.Status
	message := fmt.Sprintf("The enrollment plan for student %s has been %s", student.NIM, header.Status)
	notifType := "success"
	if header.Status == models.KrsStatusRejected {
		notifType = "warning"
		if header.Note != "" {
			message += ": " + header.Note
		}
	}

	NotifyUser(student.UserID, title, message, notifType)
	notifyGuardians(student.ID, title, message, notifType)
}

// NotifyGuardiansOfAbsence alerts guardians when a student records ALPA
func NotifyGuardiansOfAbsence(studentID uint, session *models.AttendanceSession) {
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return
	}

	var class models.Class
	database.DB.Preload("Course").
		Joins("JOIN class_schedules ON class_schedules.class_id = classes.id").
		Where("class_schedules.id = ?", session.ClassScheduleID).
		First(&class)

	title := "Absence recorded"
	message := fmt.Sprintf("Student %s was recorded absent (ALPA) in %s on %s",
		student.NIM, class.Course.Name, session.OpenedAt.Format("2006-01-02"))

	notifyGuardians(student.ID, title, message, "warning")
}
