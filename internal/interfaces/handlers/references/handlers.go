package references

import (
	"github.com/gofiber/fiber/v2"

	refsvc "egdc-backend/internal/application/references"
)

// Handlers holds dependencies for the reference-data endpoint.
type Handlers struct {
	Service *refsvc.Service
}

// All GET /api/v1/reference-data — the nine dictionaries in one response.
func (h *Handlers) All(c *fiber.Ctx) error {
	data, err := h.Service.All(c.Context())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(data)
}
