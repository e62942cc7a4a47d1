package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("hash must not equal the plain password")
	}
	if err := CheckPassword("secret123", hash); err != nil {
		t.Fatalf("expected password to match hash: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role  string
		valid bool
	}{
		{"admin", true},
		{"lecturer", true},
		{"student", true},
		{"guardian", true},
		{"owner", false},
		{"", false},
		{"Admin", false},
	}

	for _, tc := range tests {
		if got := IsValidRole(tc.role); got != tc.valid {
			t.Errorf("IsValidRole(%q) = %v, expected %v", tc.role, got, tc.valid)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"pdf", "docx", "png"}

	tests := []struct {
		name     string
		filename string
		valid    bool
	}{
		{"allowed lowercase", "report.pdf", true},
		{"allowed uppercase", "report.PDF", true},
		{"not allowed", "script.exe", false},
		{"no extension", "README", false},
		{"empty", "", false},
		{"dotted name", "archive.tar.png", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidFileExtension(tc.filename, allowed); got != tc.valid {
				t.Fatalf("IsValidFileExtension(%q) = %v, expected %v", tc.filename, got, tc.valid)
			}
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("expected length 16, got %d", len(a))
	}
	b, _ := GenerateRandomString(16)
	if a == b {
		t.Fatalf("two random strings should differ")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value: %q", got)
	}
}
