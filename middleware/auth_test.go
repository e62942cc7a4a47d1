package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"siakad_go/config"
	"siakad_go/models"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
	}

	user := &models.User{
		BaseModel: models.BaseModel{ID: 42},
		Username:  "budi",
		Role:      "student",
	}

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		t.Fatalf("expected valid claims")
	}
	if claims.UserID != 42 || claims.Username != "budi" || claims.Role != "student" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRoutePolicyAllows(t *testing.T) {
	tests := []struct {
		name    string
		policy  RoutePolicy
		role    string
		allowed bool
	}{
		{"admin on admin-only", AllowRoles("admin"), "admin", true},
		{"student on admin-only", AllowRoles("admin"), "student", false},
		{"lecturer on staff", AllowRoles("admin", "lecturer"), "lecturer", true},
		{"guardian on staff", AllowRoles("admin", "lecturer"), "guardian", false},
		{"any role on open policy", AllowRoles(), "guardian", true},
		{"empty role on open policy", AllowRoles(), "", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.Allows(tc.role); got != tc.allowed {
				t.Fatalf("Allows(%q) = %v, expected %v", tc.role, got, tc.allowed)
			}
		})
	}
}
