package response

import (
	"github.com/gofiber/fiber/v2"
)

// DetailBody is the standardized error JSON shape: {"detail": "..."}.
type DetailBody struct {
	Detail string `json:"detail"`
}

// Page is the paginated list envelope: {"total", "page", "limit", "items"}.
type Page[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Items []T   `json:"items"`
}

// NewPage builds a Page, guaranteeing a non-nil items slice in the JSON output.
func NewPage[T any](total int64, page, limit int, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Total: total, Page: page, Limit: limit, Items: items}
}

// ClampPage normalizes 1-indexed pagination input. Pages below 1 become 1;
// limits outside 1..100 fall back to 10 (unset) or cap at 100.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Detail sends an error response with the standard detail format.
func Detail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(DetailBody{Detail: message})
}

// Unauthorized sends 401 with the standard detail format.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends 403 with the standard detail format.
func Forbidden(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusForbidden, message)
}

// NotFound sends 404 with the standard detail format.
func NotFound(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusNotFound, message)
}

// UnprocessableEntity sends 422 with the standard detail format.
func UnprocessableEntity(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusUnprocessableEntity, message)
}

// Conflict sends 409 with the standard detail format.
func Conflict(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusConflict, message)
}
