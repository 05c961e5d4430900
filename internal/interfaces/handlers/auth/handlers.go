package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authsvc "egdc-backend/internal/application/auth"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the token endpoint.
type Handlers struct {
	Service *authsvc.Service
}

// Login POST /api/v1/login/access-token — form-encoded username/password,
// returns a bearer token plus the user's role. Credential failures are 400,
// not 401, matching the password flow this API replaces.
func (h *Handlers) Login(c *fiber.Ctx) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.Service.Authenticate(c.Context(), email, password)
	if err != nil {
		if errors.Is(err, authsvc.ErrEmailPasswordRequired) || errors.Is(err, authsvc.ErrInvalidCredentials) {
			return response.Detail(c, fiber.StatusBadRequest, err.Error())
		}
		return fiber.ErrInternalServerError
	}

	token, err := h.Service.CreateAccessToken(user.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(authsvc.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
	})
}
