package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error taxonomy surfaced by domain services. The fiber error handler in
// main.go translates each kind to a fixed HTTP status; the message text is
// returned verbatim to the client.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindUnauthorized
	KindConflict
	KindValidation
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to its HTTP status code
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUnauthorized:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// AsAppError unwraps err into an *AppError if it carries one
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
