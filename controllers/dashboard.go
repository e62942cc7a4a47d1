package controllers

import (
	"siakad_go/middleware"
	"siakad_go/services"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	service *services.DashboardService
}

func NewDashboardController() *DashboardController {
	return &DashboardController{service: services.NewDashboardService()}
}

// GetDashboard returns the role-specific dashboard for the authenticated
// user. The shape of the payload depends on the role.
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	dashboard, err := dc.service.BuildDashboard(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"role":      user.Role,
		"dashboard": dashboard,
	})
}
