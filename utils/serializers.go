package utils

import (
	"strings"
	"time"

	"siakad_go/models"
)

// Compact representations used across APIs
type UserShort struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
}

type ClassShort struct {
	ID         uint   `json:"id"`
	Name       string `json:"name,omitempty"`
	CourseCode string `json:"course_code,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

type NotificationDTO struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	User      UserShort  `json:"user"`
}

// ToUserShort maps a models.User to the compact DTO, reading the name from
// whichever profile the user carries. Caller should have preloaded the
// Student/Lecturer/Guardian relation.
func ToUserShort(u models.User) UserShort {
	us := UserShort{ID: u.ID, Role: u.Role}
	switch {
	case u.Student != nil:
		us.FirstName = u.Student.FirstName
		us.LastName = u.Student.LastName
	case u.Lecturer != nil:
		us.FirstName = u.Lecturer.FirstName
		us.LastName = u.Lecturer.LastName
	case u.Guardian != nil:
		us.FirstName = u.Guardian.FirstName
		us.LastName = u.Guardian.LastName
	default:
		// Fallback: use username or email local-part if no profile exists
		name := u.Username
		if name == "" && u.Email != "" {
			parts := strings.Split(u.Email, "@")
			name = parts[0]
		}
		parts := strings.Fields(name)
		if len(parts) > 0 {
			us.FirstName = parts[0]
		}
		if len(parts) > 1 {
			us.LastName = strings.Join(parts[1:], " ")
		}
	}
	return us
}

// ToClassShort maps a models.Class to the compact DTO. Caller should have
// preloaded Course.
func ToClassShort(cl models.Class) ClassShort {
	return ClassShort{
		ID:         cl.ID,
		Name:       cl.Name,
		CourseCode: cl.Course.Code,
		CourseName: cl.Course.Name,
	}
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		User:      ToUserShort(n.User),
	}
}
