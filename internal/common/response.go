package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler is the fiber error handler. Explicit *fiber.Error values keep
// their status and message; domain errors go through HTTPStatusFromError.
// Server-side failures are logged in full and answered generically.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg := fe.Message
			if fe.Code >= http.StatusInternalServerError {
				msg = ErrStoreUnavailable.Error()
			}
			return c.Status(fe.Code).JSON(ErrorResponse{Error: msg})
		}

		status := HTTPStatusFromError(err)
		if status >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return c.Status(status).JSON(ErrorResponse{Error: PublicMessage(err)})
	}
}
