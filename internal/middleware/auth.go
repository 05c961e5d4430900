package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"egdc-backend/internal/application/auth"
	"egdc-backend/internal/pkg/response"
)

const userLocalKey = "user"

// AuthUser is the request-scoped identity stored in Locals after token
// verification. The role is re-read from the database on every request so
// role changes take effect without re-issuing tokens.
type AuthUser struct {
	ID    uint
	Email string
	Role  string
}

// RequireAuth verifies the Authorization bearer token and loads the current
// user. Requests without a header are rejected before any token parsing.
func RequireAuth(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return response.Unauthorized(c, "Not authenticated")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			return response.Unauthorized(c, "Not authenticated")
		}

		user, err := svc.CurrentUser(c.Context(), tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return response.NotFound(c, auth.ErrUserNotFound.Error())
			}
			return response.Forbidden(c, auth.ErrInvalidToken.Error())
		}

		c.Locals(userLocalKey, &AuthUser{ID: user.ID, Email: user.Email, Role: user.Role})
		return c.Next()
	}
}

// GetUser returns the authenticated user set by RequireAuth, or nil when the
// route ran without it.
func GetUser(c *fiber.Ctx) *AuthUser {
	user, _ := c.Locals(userLocalKey).(*AuthUser)
	return user
}
