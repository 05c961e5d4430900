package seed

import (
	"github.com/gofiber/fiber/v2"

	seedsvc "egdc-backend/internal/application/seed"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the seed endpoint.
type Handlers struct {
	Service *seedsvc.Service
	SeedKey string
}

// Run POST /api/v1/seed — wipes the schema and loads the demo catalog.
// Gated by the X-Seed-Key header; an unconfigured key disables the endpoint.
func (h *Handlers) Run(c *fiber.Ctx) error {
	if h.SeedKey == "" || c.Get("X-Seed-Key") != h.SeedKey {
		return response.Forbidden(c, "Not authorized to seed the database")
	}
	if err := h.Service.Run(c.Context()); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Database seeded successfully"})
}
