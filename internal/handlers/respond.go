package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/otomarket/moderation-backend/internal/dto"
	"github.com/otomarket/moderation-backend/internal/moderr"
)

// writeError maps the error taxonomy onto HTTP statuses. The kind is
// echoed in the body so clients can branch without parsing messages.
func writeError(c *fiber.Ctx, err error) error {
	kind := moderr.KindOf(err)
	message := err.Error()

	var status int
	switch kind {
	case moderr.KindValidation, moderr.KindOutOfRange:
		status = fiber.StatusBadRequest
	case moderr.KindNotFound, moderr.KindUnknownListing:
		status = fiber.StatusNotFound
	case moderr.KindInvalidTransition:
		status = fiber.StatusUnprocessableEntity
	case moderr.KindConflict:
		status = fiber.StatusConflict
	default:
		status = fiber.StatusInternalServerError
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    kind.String(),
		Message: message,
	})
}
