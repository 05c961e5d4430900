package users

import (
	"github.com/gofiber/fiber/v2"

	cssvc "egdc-backend/internal/application/casestudies"
	"egdc-backend/internal/middleware"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the user-scoped endpoints.
type Handlers struct {
	CaseStudies *cssvc.Service
}

// MyCaseStudies GET /api/v1/users/me/case-studies — everything the caller
// created, any status, newest first. Unlike the public catalog this page is
// not limited to published records.
func (h *Handlers) MyCaseStudies(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	page, limit := response.ClampPage(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	items, total, err := h.CaseStudies.ListByOwner(c.Context(), user.ID, page, limit)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(response.NewPage(total, page, limit, items))
}
