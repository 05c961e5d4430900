package middleware

import (
	"github.com/gofiber/fiber/v2"

	"egdc-backend/internal/constants"
	"egdc-backend/internal/pkg/response"
)

// AuthorizePermission checks the authenticated user's role against the
// permission table. Unconfigured permission -> 500 "Permission configuration
// error"; role not allowed -> 403 "User is Forbidden from performing this
// action".
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		roles, ok := constants.PermissionRoles[permission]
		if !ok || len(roles) == 0 {
			return response.Detail(c, fiber.StatusInternalServerError, "Permission configuration error")
		}
		if !constants.AllowedRole(permission, user.Role) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}
