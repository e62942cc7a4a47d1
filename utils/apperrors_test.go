package utils

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"not found", NotFound("missing"), fiber.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), fiber.StatusForbidden},
		{"conflict", Conflict("dup"), fiber.StatusConflict},
		{"validation", Validation("bad"), fiber.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.HTTPStatus(); got != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, got)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("already exists")

	got, ok := AsAppError(appErr)
	if !ok || got.Message != "already exists" {
		t.Fatalf("expected to unwrap AppError, got %v %v", got, ok)
	}

	wrapped := fmt.Errorf("service failed: %w", appErr)
	got, ok = AsAppError(wrapped)
	if !ok || got.Kind != KindConflict {
		t.Fatalf("expected to unwrap wrapped AppError, got %v %v", got, ok)
	}

	if _, ok := AsAppError(fmt.Errorf("plain error")); ok {
		t.Fatalf("plain errors must not unwrap to AppError")
	}
}
