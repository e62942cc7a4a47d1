package controllers

import "testing"

func TestUploadFolderAllowed(t *testing.T) {
	tests := []struct {
		folder  string
		role    string
		allowed bool
	}{
		{"submissions", "student", true},
		{"avatars", "student", true},
		{"materials", "student", false},
		{"assignments", "student", false},
		{"materials", "lecturer", true},
		{"assignments", "lecturer", true},
		{"submissions", "lecturer", false},
		{"materials", "admin", true},
		{"submissions", "admin", true},
		{"avatars", "guardian", false},
		{"unknown", "admin", false},
	}

	for _, tc := range tests {
		if got := uploadFolderAllowed(tc.folder, tc.role); got != tc.allowed {
			t.Errorf("uploadFolderAllowed(%q, %q) = %v, expected %v",
				tc.folder, tc.role, got, tc.allowed)
		}
	}
}
