package utils

import (
	"testing"

	"siakad_go/models"
)

func TestToUserShort(t *testing.T) {
	tests := []struct {
		name      string
		user      models.User
		firstName string
		lastName  string
	}{
		{
			name: "student profile",
			user: models.User{
				Role:    "student",
				Student: &models.Student{FirstName: "Budi", LastName: "Santoso"},
			},
			firstName: "Budi",
			lastName:  "Santoso",
		},
		{
			name: "lecturer profile",
			user: models.User{
				Role:     "lecturer",
				Lecturer: &models.Lecturer{FirstName: "Siti", LastName: "Rahma"},
			},
			firstName: "Siti",
			lastName:  "Rahma",
		},
		{
			name: "guardian profile",
			user: models.User{
				Role:     "guardian",
				Guardian: &models.Guardian{FirstName: "Agus", LastName: "Wijaya"},
			},
			firstName: "Agus",
			lastName:  "Wijaya",
		},
		{
			name:      "no profile falls back to username",
			user:      models.User{Role: "admin", Username: "admin"},
			firstName: "admin",
			lastName:  "",
		},
		{
			name:      "no profile falls back to email local part",
			user:      models.User{Role: "admin", Email: "jane@siakad.local"},
			firstName: "jane",
			lastName:  "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ToUserShort(tc.user)
			if got.FirstName != tc.firstName || got.LastName != tc.lastName {
				t.Fatalf("expected %q %q, got %q %q",
					tc.firstName, tc.lastName, got.FirstName, got.LastName)
			}
			if got.Role != tc.user.Role {
				t.Fatalf("expected role %q, got %q", tc.user.Role, got.Role)
			}
		})
	}
}
