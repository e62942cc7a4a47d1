package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"siakad_go/utils"
)

// parseIDParam parses a numeric route parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// respondError translates a domain service error into an HTTP response.
// AppError kinds map to fixed statuses; anything else is a 500.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := utils.AsAppError(err); ok {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"error": appErr.Message,
		})
	}
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	logrus.WithFields(logrus.Fields{
		"error": err.Error(),
		"path":  c.Path(),
	}).Error("Unhandled service error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
