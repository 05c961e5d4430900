package organizations

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	orgsvc "egdc-backend/internal/application/organizations"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the organization endpoints.
type Handlers struct {
	Service *orgsvc.Service
}

// List GET /api/v1/organizations?q= — bare array, optionally filtered by a
// case-insensitive name substring.
func (h *Handlers) List(c *fiber.Ctx) error {
	orgs, err := h.Service.List(c.Context(), c.Query("q"))
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(orgs)
}

// Create POST /api/v1/organizations — 201 with the resolved read shape.
// Duplicate names conflict, unknown reference codes are validation errors.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in orgsvc.Input
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.UnprocessableEntity(c, "Invalid organization payload")
	}

	org, err := h.Service.Create(c.Context(), &in)
	if err != nil {
		var ve *orgsvc.ValidationError
		switch {
		case errors.Is(err, orgsvc.ErrNameTaken):
			return response.Conflict(c, err.Error())
		case errors.As(err, &ve):
			return response.UnprocessableEntity(c, ve.Msg)
		default:
			return fiber.ErrInternalServerError
		}
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}
