package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"egdc-backend/internal/pkg/response"
)

// ErrorHandler is the app-level error handler. Anything a handler did not map
// to a detail response itself ends up here and is rendered in the standard
// {"detail": ...} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("trace_id", GetTraceID(c)).
			Msg("unhandled error")
	}

	return response.Detail(c, code, message)
}
