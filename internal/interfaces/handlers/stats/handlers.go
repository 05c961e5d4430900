package stats

import (
	"github.com/gofiber/fiber/v2"

	statsvc "egdc-backend/internal/application/stats"
)

// Handlers holds dependencies for the dashboard stats endpoint.
type Handlers struct {
	Service *statsvc.Service
}

// Dashboard GET /api/v1/stats — map counts and benefit KPI sums over the
// published catalog.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	data, err := h.Service.Dashboard(c.Context())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(data)
}
